package anytag

import "github.com/simonhull/anytag/internal/atomicfile"

// SaveOption configures Save and SaveAs.
//
//	err := file.Save(
//	    anytag.WithBackup(".bak"),
//	    anytag.WithValidation(),
//	)
type SaveOption func(*saveOptions)

type saveOptions struct {
	write    []atomicfile.Option
	validate bool
}

func collectSaveOptions(opts []SaveOption) saveOptions {
	var o saveOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithBackup keeps the file being replaced under its name plus suffix, so
// WithBackup(".bak") leaves "song.mp3.bak" next to the new "song.mp3". An
// existing backup is overwritten. An empty suffix disables the backup.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		if suffix != "" {
			o.write = append(o.write, atomicfile.WithBackup(suffix))
		}
	}
}

// WithValidation re-opens the file after writing and checks that every
// field reads back as it was saved. This costs a full parse per save.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the modification time of the file being
// replaced.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.write = append(o.write, atomicfile.WithPreserveModTime())
	}
}

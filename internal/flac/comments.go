package flac

import (
	"fmt"

	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"

	"github.com/simonhull/anytag/internal/keymap"
	"github.com/simonhull/anytag/internal/types"
	"github.com/simonhull/anytag/internal/vorbis"
)

const defaultVendor = "anytag"

// readComments loads a VORBIS_COMMENT block. Entries without a '='
// separator are skipped with a warning.
func readComments(block *goflac.MetaDataBlock, store *keymap.Ordered) (string, []types.Warning, error) {
	cmt, err := flacvorbis.ParseFromMetaDataBlock(*block)
	if err != nil {
		return "", nil, fmt.Errorf("parse Vorbis comment: %w", err)
	}

	warnings := vorbis.Load(cmt, store)
	return cmt.Vendor, warnings, nil
}

// commentBlock encodes store as a VORBIS_COMMENT block.
func commentBlock(vendor string, store *keymap.Ordered) (*goflac.MetaDataBlock, error) {
	cmt := flacvorbis.New()
	if vendor != "" {
		cmt.Vendor = vendor
	}
	for key, values := range store.All() {
		for _, v := range values {
			if err := cmt.Add(key, v); err != nil {
				return nil, fmt.Errorf("comment %s: %w", key, err)
			}
		}
	}
	block := cmt.Marshal()
	return &block, nil
}

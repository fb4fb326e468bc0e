package anytag

// Backends register themselves with the registry on import.
import (
	_ "github.com/simonhull/anytag/internal/flac"
	_ "github.com/simonhull/anytag/internal/m4a"
	_ "github.com/simonhull/anytag/internal/mp3"
	_ "github.com/simonhull/anytag/internal/ogg"
	_ "github.com/simonhull/anytag/internal/riff"
)

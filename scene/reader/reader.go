package reader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/scene"
)

// Scene names with this prefix select one of the built-in test scenes.
const testScenePrefix = "testscene"

var errUnsupportedFormat = errors.New("reader: unsupported scene format")

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Load a scene by name. Names of the form testsceneN select the built-in test
// scene N; anything else is treated as a path or URL to a scene file.
func ReadScene(name string) (*scene.Scene, error) {
	if strings.HasPrefix(name, testScenePrefix) {
		id, err := strconv.Atoi(strings.TrimPrefix(name, testScenePrefix))
		if err != nil {
			return nil, fmt.Errorf("reader: invalid test scene name %q", name)
		}
		return TestScene(id)
	}

	// Select reader based on file extension
	var reader Reader
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		reader = newJSONReader()
	default:
		return nil, errUnsupportedFormat
	}

	res, err := asset.NewResource(name, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}

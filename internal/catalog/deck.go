package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ReadDecklist reads a YAML or JSON decklist:
//
//	name: green-stompy
//	cards:
//	  - slug: forest
//	    count: 17
//
// The name defaults to the file name without extension.
func ReadDecklist(path string) (Decklist, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Decklist{}, fmt.Errorf("failed to read decklist %s: %w", path, err)
	}

	var list Decklist
	if err := v.Unmarshal(&list); err != nil {
		return Decklist{}, fmt.Errorf("failed to parse decklist %s: %w", path, err)
	}
	if list.Name == "" {
		list.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return list, nil
}

// LoadDeck reads the decklist at path and resolves it against src.
func LoadDeck(ctx context.Context, path string, src Source) (Deck, error) {
	list, err := ReadDecklist(path)
	if err != nil {
		return Deck{}, err
	}
	return Build(ctx, src, list)
}

package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-rts/internal/game"
	"github.com/pixil98/go-rts/internal/storage"
)

type StorageConfig struct {
	Games AssetConfig[*game.GameDesc] `json:"games"`

	// Game picks the description every room is built from.
	Game storage.Ref[*game.GameDesc] `json:"game"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Games.Validate("games"))
	el.Add(c.Game.Validate())
	return el.Err()
}

// BuildGameDesc loads the game store and resolves the configured game.
func (c *StorageConfig) BuildGameDesc() (*game.GameDesc, error) {
	games, err := c.Games.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating game store: %w", err)
	}

	if err := c.Game.Resolve(games); err != nil {
		return nil, fmt.Errorf("resolving game: %w", err)
	}

	return c.Game.Get(), nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}

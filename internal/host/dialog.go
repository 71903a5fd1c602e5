package host

import (
	"context"
	"errors"

	"github.com/sqweek/dialog"
)

// Dialog picks directories with the platform's native folder dialog.
type Dialog struct {
	browse func(title string) (string, error)
}

// NewDialog returns a picker backed by the native dialog.
func NewDialog() *Dialog {
	return &Dialog{browse: func(title string) (string, error) {
		return dialog.Directory().Title(title).Browse()
	}}
}

// SelectDirectory implements DirectoryPicker. A dismissed dialog yields "".
func (d *Dialog) SelectDirectory(ctx context.Context, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir, err := d.browse(title)
	if errors.Is(err, dialog.ErrCancelled) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return dir, nil
}

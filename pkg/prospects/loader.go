// Package prospects loads the library of named prospects used for roleplay
// sessions and as grading context.
package prospects

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Load reads a prospect library from a JSON file.
func Load(path string) (lib Library, err error) {
	var fileData []byte
	fileData, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read prospects file: %s", path)
		return lib, err
	}

	err = json.Unmarshal(fileData, &lib)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse prospects JSON: %s", path)
		return lib, err
	}

	err = lib.Validate()
	if err != nil {
		err = errors.Wrap(err, "prospects validation failed")
		return lib, err
	}

	return lib, err
}

// Validate checks the library's fields and ids, then each prospect's sliders.
func (l *Library) Validate() (err error) {
	err = validator.New().Struct(l)
	if err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fe.Namespace()+" failed "+fe.Tag())
			}
			err = errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	seen := make(map[string]bool, len(l.Prospects))
	for _, p := range l.Prospects {
		if seen[p.ID] {
			err = errors.Errorf("duplicate prospect id %q", p.ID)
			return err
		}
		seen[p.ID] = true

		err = p.Profile().Validate()
		if err != nil {
			err = errors.Wrapf(err, "prospect %s", p.ID)
			return err
		}
	}

	return err
}

// Find returns the prospect with the given id.
func (l *Library) Find(id string) (prospect Prospect, err error) {
	for _, p := range l.Prospects {
		if p.ID == id {
			prospect = p
			return prospect, err
		}
	}

	err = errors.Errorf("no prospect with id %q (known: %s)", id, strings.Join(l.IDs(), ", "))
	return prospect, err
}

// IDs lists prospect ids in sorted order.
func (l *Library) IDs() (ids []string) {
	ids = make([]string, 0, len(l.Prospects))
	for _, p := range l.Prospects {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	return ids
}

package difficulty

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Validate checks that every dimension is inside its documented range. The
// scoring functions never call it; it belongs at input boundaries.
func (p Profile) Validate() (err error) {
	validate := validator.New()
	err = validate.Struct(p)
	if err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			err = describe(fieldErrs)
			return err
		}
		err = errors.Wrap(err, "invalid profile")
		return err
	}

	if p.Model == ModelExtended50 && p.ExecutionResistance < 1 {
		err = errors.New("invalid profile: execution_resistance must be 1-10 in the 50-point model")
		return err
	}

	return err
}

func describe(fieldErrs validator.ValidationErrors) (err error) {
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Field()+" failed "+fe.Tag()+" "+fe.Param())
	}
	err = errors.Errorf("invalid profile: %s", strings.Join(msgs, "; "))
	return err
}

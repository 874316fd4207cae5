package services

import (
	"errors"
	"math"
	"strings"

	"github.com/dmitrijs2005/taskmanager/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const minPasswordLength = 7

// passwordRule rejects secrets that contain the word "password" in any case.
func passwordRule(value interface{}) error {
	s, _ := value.(string)
	if strings.Contains(strings.ToLower(s), "password") {
		return errors.New("must not contain \"password\"")
	}
	return nil
}

func nameRules() []validation.Rule {
	return []validation.Rule{validation.Required}
}

func emailRules() []validation.Rule {
	return []validation.Rule{validation.Required, is.Email}
}

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(minPasswordLength, 0),
		validation.By(passwordRule),
	}
}

func ageRules() []validation.Rule {
	return []validation.Rule{validation.Min(0), validation.Max(math.MaxInt32)}
}

// fromValidation converts ozzo field errors into a common.ValidationError.
func fromValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for k, v := range verrs {
			fields[k] = v.Error()
		}
		return &common.ValidationError{Message: "validation failed", Fields: fields}
	}
	return err
}

// checkPatchKeys rejects any key outside allowed.
func checkPatchKeys(patch map[string]any, allowed ...string) error {
	fields := map[string]string{}
	for k := range patch {
		ok := false
		for _, a := range allowed {
			if k == a {
				ok = true
				break
			}
		}
		if !ok {
			fields[k] = "is not allowed"
		}
	}
	if len(fields) > 0 {
		return &common.ValidationError{Message: "invalid updates", Fields: fields}
	}
	return nil
}

func patchString(patch map[string]any, key string) (string, bool, error) {
	v, ok := patch[key]
	if !ok {
		return "", false, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", true, common.NewFieldError(key, "must be a string")
	}
	return s, true, nil
}

func patchBool(patch map[string]any, key string) (bool, bool, error) {
	v, ok := patch[key]
	if !ok {
		return false, false, nil
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, true, common.NewFieldError(key, "must be a boolean")
	}
	return b, true, nil
}

// patchInt accepts JSON numbers (float64) and Go ints holding a whole value
// that fits the INTEGER column.
func patchInt(patch map[string]any, key string) (int, bool, error) {
	v, ok := patch[key]
	if !ok {
		return 0, false, nil
	}

	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, true, common.NewFieldError(key, "must be an integer")
		}
		if x < math.MinInt32 || x > math.MaxInt32 {
			return 0, true, common.NewFieldError(key, "is out of range")
		}
		n = int64(x)
	default:
		return 0, true, common.NewFieldError(key, "must be a number")
	}

	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, true, common.NewFieldError(key, "is out of range")
	}
	return int(n), true, nil
}

package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	keyNamePattern = regexp.MustCompile(`^(ctrl\+|alt\+|shift\+)*([a-z0-9]|[A-Z]|f[0-9]{1,2}|esc|enter|tab|space|backspace|delete|up|down|left|right|home|end|pgup|pgdown|[\[\]\\/;',.`+"`"+`=-])$`)
)

// validatorInstance returns the shared validator used by the config package
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("keyname", func(fl validator.FieldLevel) bool {
			return keyNamePattern.MatchString(fl.Field().String())
		})
		validateInst = v
	})
	return validateInst
}

// Validate checks a merged config
func Validate(cfg *Config) error {
	if err := validatorInstance().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

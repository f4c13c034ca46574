package handlers

import (
	"reflect"
	"strings"
	"sync"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/service"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators добавляет в валидатор gin теги slug и coupon
// и заставляет его называть поля по json тегу
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return model.IsSlug(fl.Field().String())
		})
		_ = v.RegisterValidation("coupon", func(fl validator.FieldLevel) bool {
			return service.ValidCouponFormat(service.NormalizeCouponCode(fl.Field().String()))
		})
	})
}

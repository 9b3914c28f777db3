package handler

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"herois-da-vida/backend/pkg/password"
	"herois-da-vida/backend/pkg/response"
)

var registerOnce sync.Once

// RegisterValidators 向 gin 的校验引擎注册自定义规则，并让错误字段名取自 json tag
// 进程内只执行一次
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("password_strength", passwordStrength)
		_ = v.RegisterValidation("bcrypt_len", bcryptLen)
	})
}

// passwordStrength 密码需同时包含大写字母、小写字母和数字
func passwordStrength(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// bcryptLen 按字节计算长度，多字节字符超过 bcrypt 上限时拒绝
func bcryptLen(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= password.MaxBytes
}

// fieldErrors 将校验错误转换为逐字段的错误描述
func fieldErrors(errs validator.ValidationErrors) []response.FieldError {
	result := make([]response.FieldError, 0, len(errs))
	for _, fe := range errs {
		result = append(result, response.FieldError{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
		})
	}
	return result
}

// fieldPath 去掉顶层结构体名，如 RegisterRequest.email → email
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "email":
		return "邮箱格式无效"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("长度不能少于 %s 个字符", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("至少包含 %s 项", fe.Param())
		}
		return fmt.Sprintf("不能小于 %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("长度不能超过 %s 个字符", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("最多包含 %s 项", fe.Param())
		}
		return fmt.Sprintf("不能大于 %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("取值必须为 [%s] 之一", fe.Param())
	case "password_strength":
		return "密码必须包含大写字母、小写字母和数字"
	case "bcrypt_len":
		return fmt.Sprintf("编码后长度不能超过 %d 字节", password.MaxBytes)
	default:
		return fmt.Sprintf("校验失败 (%s)", fe.Tag())
	}
}

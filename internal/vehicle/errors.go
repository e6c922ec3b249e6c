package vehicle

import "errors"

var (
	// ErrNotFound 目标车辆不存在，或对当前操作者不可见。
	ErrNotFound = errors.New("vehicle not found")

	// ErrUnauthorized 操作者无权执行该操作。
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDuplicateRegistration 存储层唯一约束冲突（registration_number）。
	// repo 将 MySQL 1062 翻译为该错误，service 再转成 ValidationError。
	ErrDuplicateRegistration = errors.New("registration number already taken")
)

// ValidationError 聚合校验错误。
// Common 与 TypeSpecific 分开维护，调用方据此输出不同形态的错误响应。
type ValidationError struct {
	Common       map[string][]string
	TypeSpecific map[string][]string
	TypeName     string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func (e *ValidationError) addCommon(field, msg string) {
	if e.Common == nil {
		e.Common = map[string][]string{}
	}
	e.Common[field] = append(e.Common[field], msg)
}

func (e *ValidationError) addTypeSpecific(field, msg string) {
	if e.TypeSpecific == nil {
		e.TypeSpecific = map[string][]string{}
	}
	e.TypeSpecific[field] = append(e.TypeSpecific[field], msg)
}

func (e *ValidationError) empty() bool {
	return len(e.Common) == 0 && len(e.TypeSpecific) == 0
}

// InvalidTypeError 车辆类型引用无法解析为唯一类型。
type InvalidTypeError struct {
	ValidTypes []string
}

func (e *InvalidTypeError) Error() string {
	return "invalid vehicle type"
}

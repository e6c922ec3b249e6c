package vehicle

import (
	"context"
	"fmt"
	"strings"
)

// TypeRef 车辆类型引用：按 ID 或按名称二选一，由传输层构造，
// 校验前统一解析为 VehicleType。
type TypeRef struct {
	id   string
	name string
}

// TypeByID 构造按 ID 的类型引用。
func TypeByID(id string) TypeRef {
	return TypeRef{id: strings.TrimSpace(id)}
}

// TypeByName 构造按名称的类型引用。
func TypeByName(name string) TypeRef {
	return TypeRef{name: strings.TrimSpace(name)}
}

// IsZero 是否为空引用（调用方未提供类型）。
func (r TypeRef) IsZero() bool {
	return r.id == "" && r.name == ""
}

// Input 创建/更新车辆的入参。
// 数值字段用指针区分“未提供”，类型专属字段的部分更新语义依赖这一点。
type Input struct {
	RegistrationNumber string
	Manufacturer       string
	Model              string
	EngineCapacity     *float64
	Seats              *int
	Type               TypeRef
	SeatHeight         *float64
	CargoCapacity      *float64
	Tonnage            *float64
}

// discriminatorFor 返回入参中目标类型对应的专属字段值。
func (in Input) discriminatorFor(typeName string) *float64 {
	switch typeName {
	case TypeMotorcycle:
		return in.SeatHeight
	case TypeCar:
		return in.CargoCapacity
	case TypePickupTruck:
		return in.Tonnage
	}
	return nil
}

// Validator 校验引擎：公共规则 + 按类型选择的专属规则，聚合全部字段错误。
type Validator struct {
	store Store
}

func NewValidator(store Store) *Validator {
	return &Validator{store: store}
}

// ResolveType 将 TypeRef 解析为唯一的 VehicleType。
// 名称不命中时回退按 ID 查一次（兼容把数字 ID 放进名称字段的调用方）。
// 解析失败返回 InvalidTypeError，携带全部合法类型名。
func (v *Validator) ResolveType(ctx context.Context, ref TypeRef) (*VehicleType, error) {
	if v == nil || v.store == nil {
		return nil, fmt.Errorf("validator not initialized")
	}

	var (
		vt  *VehicleType
		err error
	)
	switch {
	case ref.id != "":
		vt, err = v.store.FindTypeByID(ctx, ref.id)
	case ref.name != "":
		vt, err = v.store.FindTypeByName(ctx, ref.name)
		if err == ErrNotFound {
			vt, err = v.store.FindTypeByID(ctx, ref.name)
		}
	default:
		err = ErrNotFound
	}

	if err == ErrNotFound {
		return nil, v.invalidType(ctx)
	}
	if err != nil {
		return nil, err
	}
	return vt, nil
}

func (v *Validator) invalidType(ctx context.Context) error {
	types, err := v.store.ListTypes(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.Name)
	}
	return &InvalidTypeError{ValidTypes: names}
}

// Validate 对入参执行全部规则并聚合错误。
//
// excludeID 非空时唯一性检查排除该车辆自身（更新场景）。
// requireDiscriminator 控制目标类型的专属字段是否必填：创建与类型变更时必填，
// 同类型更新时仅在提供了该字段的情况下校验取值。
func (v *Validator) Validate(ctx context.Context, vt *VehicleType, in Input, excludeID string, requireDiscriminator bool) error {
	if v == nil || v.store == nil {
		return fmt.Errorf("validator not initialized")
	}
	if vt == nil {
		return fmt.Errorf("vehicle type is nil")
	}

	ve := &ValidationError{TypeName: vt.Name}

	// 公共规则
	reg := strings.TrimSpace(in.RegistrationNumber)
	switch {
	case reg == "":
		ve.addCommon("registration_number", "registration_number is required")
	case len(reg) > 255:
		ve.addCommon("registration_number", "registration_number must not exceed 255 characters")
	default:
		taken, err := v.store.RegistrationTaken(ctx, reg, excludeID)
		if err != nil {
			return err
		}
		if taken {
			ve.addCommon("registration_number", "registration_number has already been taken")
		}
	}

	if m := strings.TrimSpace(in.Manufacturer); m == "" {
		ve.addCommon("manufacturer", "manufacturer is required")
	} else if len(m) > 255 {
		ve.addCommon("manufacturer", "manufacturer must not exceed 255 characters")
	}

	if m := strings.TrimSpace(in.Model); m == "" {
		ve.addCommon("model", "model is required")
	} else if len(m) > 255 {
		ve.addCommon("model", "model must not exceed 255 characters")
	}

	switch {
	case in.EngineCapacity == nil:
		ve.addCommon("engine_capacity", "engine_capacity is required")
	case *in.EngineCapacity < 0:
		ve.addCommon("engine_capacity", "engine_capacity must be at least 0")
	}

	switch {
	case in.Seats == nil:
		ve.addCommon("seats", "seats is required")
	case *in.Seats < 1:
		ve.addCommon("seats", "seats must be at least 1")
	}

	// 类型专属规则：每次调用恰好激活一组
	field, ok := DiscriminatorField(vt.Name)
	if !ok {
		return fmt.Errorf("no discriminator field for vehicle type %q", vt.Name)
	}
	value := in.discriminatorFor(vt.Name)
	switch {
	case value == nil && requireDiscriminator:
		ve.addTypeSpecific(field, fmt.Sprintf("%s is required for vehicle type %s", field, vt.Name))
	case value != nil && *value < 0:
		ve.addTypeSpecific(field, fmt.Sprintf("%s must be at least 0", field))
	}

	if ve.empty() {
		return nil
	}
	return ve
}

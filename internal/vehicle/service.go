package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ListScope 列表可见范围，由 service 根据操作者身份决定。
type ListScope int

const (
	ScopeApproved        ListScope = iota // 仅已审核（匿名/公开视角）
	ScopeApprovedOrOwned                  // 已审核或本人名下（登录非管理员）
	ScopeAll                              // 全部（管理员）
	ScopeUnapproved                       // 全部未审核（管理员审核队列）
	ScopeUnapprovedOwned                  // 本人名下未审核
)

// ListFilter 列表查询条件。
type ListFilter struct {
	TypeID  string
	Search  string // registration_number / manufacturer / model 的不区分大小写子串匹配
	SortBy  string
	SortDir string
	Page    int
	PerPage int

	// 以下由 service 填写，handler 传入的值会被覆盖
	Scope   ListScope
	OwnerID string
}

// Store 车辆与车辆类型的持久化接口。
// registration_number 的唯一性最终由存储层约束兜底，RegistrationTaken 只是预检。
type Store interface {
	CreateVehicle(ctx context.Context, v *Vehicle) error
	GetVehicle(ctx context.Context, id string) (*Vehicle, error)
	UpdateVehicle(ctx context.Context, v *Vehicle) error
	SetApproved(ctx context.Context, id string, approved bool) error
	DeleteVehicle(ctx context.Context, id string) error
	ListVehicles(ctx context.Context, f ListFilter) ([]Vehicle, int64, error)
	RegistrationTaken(ctx context.Context, registrationNumber, excludeID string) (bool, error)

	ListTypes(ctx context.Context) ([]VehicleType, error)
	FindTypeByID(ctx context.Context, id string) (*VehicleType, error)
	FindTypeByName(ctx context.Context, name string) (*VehicleType, error)
}

// Service 封装车辆生命周期的核心用例（不依赖 HTTP），便于复用和测试。
type Service struct {
	store     Store
	validator *Validator
}

func NewService(store Store) *Service {
	return &Service{store: store, validator: NewValidator(store)}
}

// Create 创建车辆：操作者成为车主，初始为未审核状态。
func (s *Service) Create(ctx context.Context, actor *Actor, in Input) (*Vehicle, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if actor == nil {
		return nil, ErrUnauthorized
	}

	vt, err := s.validator.ResolveType(ctx, in.Type)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(ctx, vt, in, "", true); err != nil {
		return nil, err
	}

	v := &Vehicle{
		ID:                 uuid.NewString(),
		RegistrationNumber: strings.TrimSpace(in.RegistrationNumber),
		Manufacturer:       strings.TrimSpace(in.Manufacturer),
		Model:              strings.TrimSpace(in.Model),
		EngineCapacity:     *in.EngineCapacity,
		Seats:              *in.Seats,
		VehicleTypeID:      vt.ID,
		OwnerID:            actor.ID,
		IsApproved:         false,
	}
	v.setDiscriminator(vt.Name, in.discriminatorFor(vt.Name))

	if err := s.store.CreateVehicle(ctx, v); err != nil {
		return nil, s.translateStoreErr(err, vt.Name)
	}
	return v, nil
}

// Update 更新车辆。
//
// 目标类型为入参引用，未提供时沿用既有类型。类型变更视为一次迁移：
// 新类型的专属字段必填，旧类型的专属字段全部清空。同类型更新时专属字段
// 仅在提供时覆盖（部分更新语义），其余字段始终整体覆盖。
// 任何成功的更新都会把 is_approved 重置为 false，等待重新审核。
func (s *Service) Update(ctx context.Context, actor *Actor, id string, in Input) (*Vehicle, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	v, err := s.store.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutate(actor, v) {
		return nil, ErrUnauthorized
	}

	ref := in.Type
	if ref.IsZero() {
		ref = TypeByID(v.VehicleTypeID)
	}
	vt, err := s.validator.ResolveType(ctx, ref)
	if err != nil {
		return nil, err
	}

	typeChanged := vt.ID != v.VehicleTypeID
	if err := s.validator.Validate(ctx, vt, in, v.ID, typeChanged); err != nil {
		return nil, err
	}

	v.RegistrationNumber = strings.TrimSpace(in.RegistrationNumber)
	v.Manufacturer = strings.TrimSpace(in.Manufacturer)
	v.Model = strings.TrimSpace(in.Model)
	v.EngineCapacity = *in.EngineCapacity
	v.Seats = *in.Seats
	v.VehicleTypeID = vt.ID

	if typeChanged {
		v.clearDiscriminators()
		v.setDiscriminator(vt.Name, in.discriminatorFor(vt.Name))
	} else if supplied := in.discriminatorFor(vt.Name); supplied != nil {
		v.setDiscriminator(vt.Name, supplied)
	}

	// 任何字段修改都需要重新审核
	v.IsApproved = false

	if err := s.store.UpdateVehicle(ctx, v); err != nil {
		return nil, s.translateStoreErr(err, vt.Name)
	}
	return v, nil
}

// Approve 管理员审核通过：仅翻转 is_approved，不触碰其它字段。
func (s *Service) Approve(ctx context.Context, actor *Actor, id string) (*Vehicle, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if !CanApprove(actor) {
		return nil, ErrUnauthorized
	}

	v, err := s.store.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetApproved(ctx, v.ID, true); err != nil {
		return nil, err
	}
	v.IsApproved = true
	return v, nil
}

// Delete 车主或管理员删除车辆。
func (s *Service) Delete(ctx context.Context, actor *Actor, id string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("service not initialized")
	}

	v, err := s.store.GetVehicle(ctx, id)
	if err != nil {
		return err
	}
	if !CanMutate(actor, v) {
		return ErrUnauthorized
	}
	return s.store.DeleteVehicle(ctx, v.ID)
}

// Get 查询单辆车。
// 未审核车辆仅对管理员与车主可见；对其他人一律返回 ErrNotFound，
// 避免向外部确认车辆存在。
func (s *Service) Get(ctx context.Context, actor *Actor, id string) (*Vehicle, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	v, err := s.store.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.IsApproved && !CanViewUnapproved(actor, v) {
		return nil, ErrNotFound
	}
	return v, nil
}

// List 车辆列表：匿名只看已审核；登录非管理员额外看到本人名下记录；管理员全量。
func (s *Service) List(ctx context.Context, actor *Actor, f ListFilter) ([]Vehicle, int64, error) {
	if s == nil || s.store == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}

	switch {
	case actor == nil:
		f.Scope, f.OwnerID = ScopeApproved, ""
	case actor.Admin:
		f.Scope, f.OwnerID = ScopeAll, ""
	default:
		f.Scope, f.OwnerID = ScopeApprovedOrOwned, actor.ID
	}
	return s.store.ListVehicles(ctx, f)
}

// ListUnapproved 审核队列：管理员看全部未审核，普通用户只看本人名下的。
func (s *Service) ListUnapproved(ctx context.Context, actor *Actor, f ListFilter) ([]Vehicle, int64, error) {
	if s == nil || s.store == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	if actor == nil {
		return nil, 0, ErrUnauthorized
	}

	if actor.Admin {
		f.Scope, f.OwnerID = ScopeUnapproved, ""
	} else {
		f.Scope, f.OwnerID = ScopeUnapprovedOwned, actor.ID
	}
	return s.store.ListVehicles(ctx, f)
}

// ListTypes 枚举全部车辆类型。
func (s *Service) ListTypes(ctx context.Context) ([]VehicleType, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.store.ListTypes(ctx)
}

// translateStoreErr 把存储层的唯一约束冲突翻译回校验错误，
// 其余错误原样向上传递。
func (s *Service) translateStoreErr(err error, typeName string) error {
	if errors.Is(err, ErrDuplicateRegistration) {
		ve := &ValidationError{TypeName: typeName}
		ve.addCommon("registration_number", "registration_number has already been taken")
		return ve
	}
	return err
}

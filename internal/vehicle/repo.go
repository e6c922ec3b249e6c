package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repo 基于 GORM 的 Store 实现。
type Repo struct {
	db *gorm.DB
}

var _ Store = (*Repo)(nil)

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

// Migrate 建表并写入固定的车辆类型参照数据。
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	if err := db.AutoMigrate(&VehicleType{}, &Vehicle{}); err != nil {
		return fmt.Errorf("failed to migrate vehicle schema: %w", err)
	}
	for _, name := range TypeNames() {
		vt := VehicleType{ID: uuid.NewString(), Name: name}
		err := db.Where("name = ?", name).FirstOrCreate(&vt).Error
		if err != nil {
			return fmt.Errorf("failed to seed vehicle type %q: %w", name, err)
		}
	}
	return nil
}

func (r *Repo) CreateVehicle(ctx context.Context, v *Vehicle) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return translateDBErr(db.Create(v).Error)
}

func (r *Repo) GetVehicle(ctx context.Context, id string) (*Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var v Vehicle
	if err := db.Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *Repo) UpdateVehicle(ctx context.Context, v *Vehicle) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	// Save 覆盖全部字段，类型变更后旧专属字段会被写成 NULL
	return translateDBErr(db.Save(v).Error)
}

func (r *Repo) SetApproved(ctx context.Context, id string, approved bool) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	res := db.Model(&Vehicle{}).Where("id = ?", id).Update("is_approved", approved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteVehicle(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	res := db.Where("id = ?", id).Delete(&Vehicle{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListVehicles 支持类型过滤、模糊搜索、白名单排序与分页。
func (r *Repo) ListVehicles(ctx context.Context, f ListFilter) ([]Vehicle, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}

	q := db.Model(&Vehicle{})
	switch f.Scope {
	case ScopeApproved:
		q = q.Where("is_approved = ?", true)
	case ScopeApprovedOrOwned:
		q = q.Where("is_approved = ? OR owner_id = ?", true, f.OwnerID)
	case ScopeUnapproved:
		q = q.Where("is_approved = ?", false)
	case ScopeUnapprovedOwned:
		q = q.Where("is_approved = ? AND owner_id = ?", false, f.OwnerID)
	case ScopeAll:
		// 不加可见性约束
	}

	if f.TypeID != "" {
		q = q.Where("vehicle_type_id = ?", f.TypeID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(registration_number) LIKE ? OR LOWER(manufacturer) LIKE ? OR LOWER(model) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, perPage := normalizePage(f.Page, f.PerPage)
	var vehicles []Vehicle
	err := q.Order(sortClause(f.SortBy, f.SortDir)).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&vehicles).Error
	if err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

func (r *Repo) RegistrationTaken(ctx context.Context, registrationNumber, excludeID string) (bool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	q := db.Model(&Vehicle{}).Where("registration_number = ?", registrationNumber)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repo) ListTypes(ctx context.Context) ([]VehicleType, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var types []VehicleType
	if err := db.Order("created_at asc").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *Repo) FindTypeByID(ctx context.Context, id string) (*VehicleType, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var vt VehicleType
	if err := db.Where("id = ?", id).First(&vt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vt, nil
}

func (r *Repo) FindTypeByName(ctx context.Context, name string) (*VehicleType, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var vt VehicleType
	if err := db.Where("name = ?", name).First(&vt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vt, nil
}

// allowedSortFields 排序字段白名单，防止任意列注入。
var allowedSortFields = map[string]bool{
	"created_at":          true,
	"manufacturer":        true,
	"model":               true,
	"registration_number": true,
}

// sortClause 把用户输入规整为白名单内的 order 子句；
// 不在白名单内的字段静默回退 created_at desc，从不报错。
func sortClause(by, dir string) string {
	if !allowedSortFields[by] {
		return "created_at desc"
	}
	if dir != "asc" && dir != "desc" {
		dir = "desc"
	}
	return by + " " + dir
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	if perPage > 200 {
		perPage = 200
	}
	return page, perPage
}

// translateDBErr 把 MySQL 唯一键冲突（error 1062）翻译为领域错误。
func translateDBErr(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return ErrDuplicateRegistration
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRegistration
	}
	return err
}

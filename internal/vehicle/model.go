package vehicle

import (
	"time"
)

// 固定的车辆类型名称，随迁移写入 vehicle_types 表。
const (
	TypeMotorcycle  = "Motorcycle"
	TypeCar         = "Car"
	TypePickupTruck = "Pickup Truck"
)

// TypeNames 按种子顺序返回全部类型名。
func TypeNames() []string {
	return []string{TypeMotorcycle, TypeCar, TypePickupTruck}
}

// VehicleType 是 vehicle_types 表的 GORM 模型（不可变参照数据）。
type VehicleType struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Vehicle 是 vehicles 表的 GORM 模型。
//
// 类型专属字段（SeatHeight / CargoCapacity / Tonnage）同一时刻最多一个非空，
// 且必须与 VehicleTypeID 对应的类型一致；类型变更时由 service 负责清空旧字段。
type Vehicle struct {
	ID                 string  `gorm:"primaryKey;size:36" json:"id"`
	RegistrationNumber string  `gorm:"uniqueIndex;size:255;not null" json:"registration_number"`
	Manufacturer       string  `gorm:"size:255;not null" json:"manufacturer"`
	Model              string  `gorm:"size:255;not null" json:"model"`
	EngineCapacity     float64 `gorm:"type:decimal(8,2);not null" json:"engine_capacity"`
	Seats              int     `gorm:"not null" json:"seats"`

	// 类型专属字段
	SeatHeight    *float64 `gorm:"type:decimal(8,2)" json:"seat_height"`    // Motorcycle
	CargoCapacity *float64 `gorm:"type:decimal(8,2)" json:"cargo_capacity"` // Car
	Tonnage       *float64 `gorm:"type:decimal(8,2)" json:"tonnage"`        // Pickup Truck

	IsApproved    bool      `gorm:"not null;default:false;index" json:"is_approved"`
	VehicleTypeID string    `gorm:"index;size:36;not null" json:"vehicle_type_id"`
	OwnerID       string    `gorm:"index;size:36;not null" json:"owner_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DiscriminatorField 返回类型名对应的专属字段名。
func DiscriminatorField(typeName string) (string, bool) {
	switch typeName {
	case TypeMotorcycle:
		return "seat_height", true
	case TypeCar:
		return "cargo_capacity", true
	case TypePickupTruck:
		return "tonnage", true
	}
	return "", false
}

// clearDiscriminators 清空全部类型专属字段。
func (v *Vehicle) clearDiscriminators() {
	v.SeatHeight = nil
	v.CargoCapacity = nil
	v.Tonnage = nil
}

// setDiscriminator 按类型名写入对应的专属字段。
func (v *Vehicle) setDiscriminator(typeName string, value *float64) {
	switch typeName {
	case TypeMotorcycle:
		v.SeatHeight = value
	case TypeCar:
		v.CargoCapacity = value
	case TypePickupTruck:
		v.Tonnage = value
	}
}

// discriminator 按类型名读取对应的专属字段。
func (v *Vehicle) discriminator(typeName string) *float64 {
	switch typeName {
	case TypeMotorcycle:
		return v.SeatHeight
	case TypeCar:
		return v.CargoCapacity
	case TypePickupTruck:
		return v.Tonnage
	}
	return nil
}

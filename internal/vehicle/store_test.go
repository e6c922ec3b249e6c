package vehicle

import (
	"context"
	"strings"
)

// fakeStore 内存版 Store，供 service / validator 测试使用。
type fakeStore struct {
	vehicles map[string]*Vehicle
	types    []VehicleType

	createErr error
	updateErr error

	lastList ListFilter
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		vehicles: map[string]*Vehicle{},
		types: []VehicleType{
			{ID: "vt-moto", Name: TypeMotorcycle},
			{ID: "vt-car", Name: TypeCar},
			{ID: "vt-truck", Name: TypePickupTruck},
		},
	}
}

func (f *fakeStore) CreateVehicle(ctx context.Context, v *Vehicle) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *v
	f.vehicles[v.ID] = &cp
	return nil
}

func (f *fakeStore) GetVehicle(ctx context.Context, id string) (*Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeStore) UpdateVehicle(ctx context.Context, v *Vehicle) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.vehicles[v.ID]; !ok {
		return ErrNotFound
	}
	cp := *v
	f.vehicles[v.ID] = &cp
	return nil
}

func (f *fakeStore) SetApproved(ctx context.Context, id string, approved bool) error {
	v, ok := f.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	v.IsApproved = approved
	return nil
}

func (f *fakeStore) DeleteVehicle(ctx context.Context, id string) error {
	if _, ok := f.vehicles[id]; !ok {
		return ErrNotFound
	}
	delete(f.vehicles, id)
	return nil
}

func (f *fakeStore) ListVehicles(ctx context.Context, filter ListFilter) ([]Vehicle, int64, error) {
	f.lastList = filter

	out := make([]Vehicle, 0, len(f.vehicles))
	for _, v := range f.vehicles {
		switch filter.Scope {
		case ScopeApproved:
			if !v.IsApproved {
				continue
			}
		case ScopeApprovedOrOwned:
			if !v.IsApproved && v.OwnerID != filter.OwnerID {
				continue
			}
		case ScopeUnapproved:
			if v.IsApproved {
				continue
			}
		case ScopeUnapprovedOwned:
			if v.IsApproved || v.OwnerID != filter.OwnerID {
				continue
			}
		}
		if filter.TypeID != "" && v.VehicleTypeID != filter.TypeID {
			continue
		}
		if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
			if !strings.Contains(strings.ToLower(v.RegistrationNumber), s) &&
				!strings.Contains(strings.ToLower(v.Manufacturer), s) &&
				!strings.Contains(strings.ToLower(v.Model), s) {
				continue
			}
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) RegistrationTaken(ctx context.Context, registrationNumber, excludeID string) (bool, error) {
	for _, v := range f.vehicles {
		if v.RegistrationNumber == registrationNumber && v.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListTypes(ctx context.Context) ([]VehicleType, error) {
	return f.types, nil
}

func (f *fakeStore) FindTypeByID(ctx context.Context, id string) (*VehicleType, error) {
	for i := range f.types {
		if f.types[i].ID == id {
			cp := f.types[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) FindTypeByName(ctx context.Context, name string) (*VehicleType, error) {
	for i := range f.types {
		if f.types[i].Name == name {
			cp := f.types[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func f64(v float64) *float64 { return &v }

func iptr(v int) *int { return &v }

// carInput 一份合法的 Car 入参，测试用例在其基础上做增删。
func carInput() Input {
	return Input{
		RegistrationNumber: "ABC123456",
		Manufacturer:       "Toyota",
		Model:              "Camry",
		EngineCapacity:     f64(2.5),
		Seats:              iptr(5),
		Type:               TypeByName(TypeCar),
		CargoCapacity:      f64(500),
	}
}

package vehicle

import (
	"context"
	"errors"
	"testing"
)

func TestResolveType(t *testing.T) {
	v := NewValidator(newFakeStore())
	ctx := context.Background()

	vt, err := v.ResolveType(ctx, TypeByID("vt-car"))
	if err != nil {
		t.Fatalf("ResolveType by id: %v", err)
	}
	if vt.Name != TypeCar {
		t.Fatalf("expected %s, got %s", TypeCar, vt.Name)
	}

	vt, err = v.ResolveType(ctx, TypeByName(TypePickupTruck))
	if err != nil {
		t.Fatalf("ResolveType by name: %v", err)
	}
	if vt.ID != "vt-truck" {
		t.Fatalf("expected vt-truck, got %s", vt.ID)
	}

	// 名称不命中时回退按 ID 查
	vt, err = v.ResolveType(ctx, TypeByName("vt-moto"))
	if err != nil {
		t.Fatalf("ResolveType name fallback to id: %v", err)
	}
	if vt.Name != TypeMotorcycle {
		t.Fatalf("expected %s, got %s", TypeMotorcycle, vt.Name)
	}
}

func TestResolveTypeInvalid(t *testing.T) {
	v := NewValidator(newFakeStore())

	for _, ref := range []TypeRef{TypeByName("Submarine"), TypeByID("vt-missing"), {}} {
		_, err := v.ResolveType(context.Background(), ref)
		var te *InvalidTypeError
		if !errors.As(err, &te) {
			t.Fatalf("expected InvalidTypeError for %#v, got %v", ref, err)
		}
		if len(te.ValidTypes) != 3 || te.ValidTypes[0] != TypeMotorcycle {
			t.Fatalf("expected full valid type list, got %#v", te.ValidTypes)
		}
	}
}

func TestValidateMissingDiscriminator(t *testing.T) {
	store := newFakeStore()
	v := NewValidator(store)
	ctx := context.Background()

	cases := []struct {
		typeName string
		field    string
	}{
		{TypeMotorcycle, "seat_height"},
		{TypeCar, "cargo_capacity"},
		{TypePickupTruck, "tonnage"},
	}
	for _, tc := range cases {
		vt, err := store.FindTypeByName(ctx, tc.typeName)
		if err != nil {
			t.Fatalf("FindTypeByName(%s): %v", tc.typeName, err)
		}
		in := carInput()
		in.Type = TypeByName(tc.typeName)
		in.SeatHeight, in.CargoCapacity, in.Tonnage = nil, nil, nil

		err = v.Validate(ctx, vt, in, "", true)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.typeName, err)
		}
		if len(ve.Common) != 0 {
			t.Fatalf("%s: expected no common errors, got %#v", tc.typeName, ve.Common)
		}
		if len(ve.TypeSpecific) != 1 || len(ve.TypeSpecific[tc.field]) == 0 {
			t.Fatalf("%s: expected exactly field %s, got %#v", tc.typeName, tc.field, ve.TypeSpecific)
		}
	}
}

func TestValidateAggregatesAllFields(t *testing.T) {
	store := newFakeStore()
	v := NewValidator(store)
	ctx := context.Background()

	vt, _ := store.FindTypeByName(ctx, TypeCar)
	err := v.Validate(ctx, vt, Input{}, "", true)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"registration_number", "manufacturer", "model", "engine_capacity", "seats"} {
		if len(ve.Common[field]) == 0 {
			t.Fatalf("expected common error for %s, got %#v", field, ve.Common)
		}
	}
	if len(ve.TypeSpecific["cargo_capacity"]) == 0 {
		t.Fatalf("expected type-specific error for cargo_capacity, got %#v", ve.TypeSpecific)
	}
}

func TestValidateRanges(t *testing.T) {
	store := newFakeStore()
	v := NewValidator(store)
	ctx := context.Background()

	vt, _ := store.FindTypeByName(ctx, TypeCar)
	in := carInput()
	in.EngineCapacity = f64(-1)
	in.Seats = iptr(0)
	in.CargoCapacity = f64(-5)

	err := v.Validate(ctx, vt, in, "", true)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Common["engine_capacity"]) == 0 || len(ve.Common["seats"]) == 0 {
		t.Fatalf("expected range errors, got %#v", ve.Common)
	}
	if len(ve.TypeSpecific["cargo_capacity"]) == 0 {
		t.Fatalf("expected negative cargo_capacity rejected, got %#v", ve.TypeSpecific)
	}
}

func TestValidateUniqueRegistration(t *testing.T) {
	store := newFakeStore()
	store.vehicles["v-1"] = &Vehicle{ID: "v-1", RegistrationNumber: "ABC123456"}
	v := NewValidator(store)
	ctx := context.Background()

	vt, _ := store.FindTypeByName(ctx, TypeCar)

	// 其它车辆占用了该牌照
	err := v.Validate(ctx, vt, carInput(), "", true)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected duplicate ValidationError, got %v", err)
	}
	if len(ve.Common["registration_number"]) == 0 {
		t.Fatalf("expected registration_number error, got %#v", ve.Common)
	}

	// 更新自身时排除自己
	if err := v.Validate(ctx, vt, carInput(), "v-1", true); err != nil {
		t.Fatalf("expected self-exclusion to pass, got %v", err)
	}
}

func TestValidateDiscriminatorOptionalWhenNotRequired(t *testing.T) {
	store := newFakeStore()
	v := NewValidator(store)
	ctx := context.Background()

	vt, _ := store.FindTypeByName(ctx, TypeCar)
	in := carInput()
	in.CargoCapacity = nil

	// 同类型更新场景：未提供专属字段不报错
	if err := v.Validate(ctx, vt, in, "", false); err != nil {
		t.Fatalf("expected pass without discriminator, got %v", err)
	}

	// 但提供了就要合法
	in.CargoCapacity = f64(-1)
	err := v.Validate(ctx, vt, in, "", false)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.TypeSpecific["cargo_capacity"]) == 0 {
		t.Fatalf("expected cargo_capacity error, got %#v", ve.TypeSpecific)
	}
}

package vehicle

// Actor 当前操作者（nil 表示匿名访问）。
type Actor struct {
	ID    string
	Admin bool
}

// CanMutate 管理员或车主可以修改/删除车辆。
func CanMutate(a *Actor, v *Vehicle) bool {
	if a == nil || v == nil {
		return false
	}
	return a.Admin || a.ID == v.OwnerID
}

// CanApprove 仅管理员可以审核。
func CanApprove(a *Actor) bool {
	return a != nil && a.Admin
}

// CanViewUnapproved 未审核车辆仅对管理员和车主可见。
func CanViewUnapproved(a *Actor, v *Vehicle) bool {
	if a == nil || v == nil {
		return false
	}
	return a.Admin || a.ID == v.OwnerID
}

package models

type Role string
type VehicleType string

const (
	RoleAdmin Role = "ADMIN"
	RoleRider Role = "RIDER"
	RoleOwner Role = "OWNER"

	// Vehicle type values are the remote backend's wire strings.
	VehicleTypeAuto VehicleType = "Auto Rickshaw"
	VehicleTypeBike VehicleType = "Bike"
	VehicleTypeCar  VehicleType = "Car"
	VehicleTypeSUV  VehicleType = "SUV"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleRider, RoleOwner:
		return true
	}
	return false
}

func (v VehicleType) Valid() bool {
	switch v {
	case VehicleTypeAuto, VehicleTypeBike, VehicleTypeCar, VehicleTypeSUV:
		return true
	}
	return false
}

// User is any authenticated actor. Role never changes after creation; the
// Owner profile is present exactly when Role is RoleOwner.
type User struct {
	ID          string        `json:"id"`
	Role        Role          `json:"role"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	ExpiresAt   string        `json:"expires_at"` // ISO-8601, may be empty or invalid
	IsFirstTime bool          `json:"is_first_time,omitempty"`
	Owner       *OwnerProfile `json:"owner,omitempty"`
}

// OwnerProfile carries the vehicle-owner attributes. An owner record always
// keeps some coordinate pair; missing live coordinates fall back to the
// configured default point.
type OwnerProfile struct {
	VehicleType   VehicleType `json:"vehicle_type"`
	BaseAreaID    string      `json:"base_area_id"`
	VehicleNumber string      `json:"vehicle_number,omitempty"`
	IsAvailable   bool        `json:"is_available"`
	Latitude      float64     `json:"lat"`
	Longitude     float64     `json:"lng"`
}

func (u *User) IsOwner() bool {
	return u != nil && u.Role == RoleOwner && u.Owner != nil
}

// Clone returns a deep copy so session reads never alias the stored record.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.Owner != nil {
		owner := *u.Owner
		cp.Owner = &owner
	}
	return &cp
}

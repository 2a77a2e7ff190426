package gateway

import (
	"context"
	"time"

	"simbengride/internal/models"
)

// wireUser is the backend's flat actor shape. Owners arrive with vehicle and
// location fields at the top level; the composed model keeps them under an
// OwnerProfile instead.
type wireUser struct {
	ID            string             `json:"id"`
	Role          models.Role        `json:"role"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
	ExpiresAt     string             `json:"expiresAt"`
	IsFirstTime   bool               `json:"isFirstTime"`
	VehicleType   models.VehicleType `json:"vehicleType"`
	BaseArea      string             `json:"baseArea"`
	VehicleNumber string             `json:"vehicleNumber"`
	IsAvailable   bool               `json:"isAvailable"`
	Lat           float64            `json:"lat"`
	Lng           float64            `json:"lng"`
}

func (c *Client) toModel(w *wireUser) *models.User {
	user := &models.User{
		ID:          w.ID,
		Role:        w.Role,
		Name:        w.Name,
		Email:       w.Email,
		Phone:       w.Phone,
		ExpiresAt:   w.ExpiresAt,
		IsFirstTime: w.IsFirstTime,
	}

	if w.Role == models.RoleOwner {
		lat, lng := w.Lat, w.Lng
		if lat == 0 && lng == 0 {
			lat, lng = c.defaultLat, c.defaultLng
		}
		user.Owner = &models.OwnerProfile{
			VehicleType:   w.VehicleType,
			BaseAreaID:    w.BaseArea,
			VehicleNumber: w.VehicleNumber,
			IsAvailable:   w.IsAvailable,
			Latitude:      lat,
			Longitude:     lng,
		}
	}

	return user
}

// Login authenticates against the remote backend. If the remote call fails
// and the submitted pair matches the configured emergency admin credentials,
// a synthetic admin actor with a ten-year expiry is returned instead; the
// remote backend is bypassed entirely in that case.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	data, err := c.call(ctx, "login", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	if err != nil {
		if c.emergencyEmail != "" && c.emergencyPassword != "" &&
			email == c.emergencyEmail && password == c.emergencyPassword {
			c.logger.WithField("email", email).Warn("Remote login failed, emergency admin fallback engaged")
			return &models.User{
				ID:        "admin-emergency",
				Role:      models.RoleAdmin,
				Name:      "System Admin",
				Email:     email,
				Phone:     "0000000000",
				ExpiresAt: time.Now().AddDate(10, 0, 0).UTC().Format(time.RFC3339),
			}, nil
		}
		return nil, err
	}

	var w wireUser
	if err := decode(data, &w); err != nil {
		return nil, err
	}
	return c.toModel(&w), nil
}

type RiderRegistration struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

func (c *Client) RegisterRider(ctx context.Context, reg *RiderRegistration) (*models.User, error) {
	data, err := c.call(ctx, "registerRider", map[string]interface{}{
		"role":     models.RoleRider,
		"name":     reg.Name,
		"email":    reg.Email,
		"phone":    reg.Phone,
		"password": reg.Password,
	})
	if err != nil {
		return nil, err
	}

	var w wireUser
	if err := decode(data, &w); err != nil {
		return nil, err
	}
	return c.toModel(&w), nil
}

type OwnerRegistration struct {
	Name          string
	Email         string
	Phone         string
	Password      string
	VehicleType   models.VehicleType
	BaseAreaID    string
	VehicleNumber string
}

func (c *Client) RegisterOwner(ctx context.Context, reg *OwnerRegistration) (*models.User, error) {
	data, err := c.call(ctx, "registerOwner", map[string]interface{}{
		"role":          models.RoleOwner,
		"name":          reg.Name,
		"email":         reg.Email,
		"phone":         reg.Phone,
		"password":      reg.Password,
		"vehicleType":   reg.VehicleType,
		"baseArea":      reg.BaseAreaID,
		"vehicleNumber": reg.VehicleNumber,
	})
	if err != nil {
		return nil, err
	}

	var w wireUser
	if err := decode(data, &w); err != nil {
		return nil, err
	}
	return c.toModel(&w), nil
}

// ProfileUpdate carries the editable profile fields. Nil pointers are
// omitted from the request so the remote side only touches submitted fields.
type ProfileUpdate struct {
	Name          *string
	Phone         *string
	VehicleType   *models.VehicleType
	BaseAreaID    *string
	VehicleNumber *string
}

func (c *Client) UpdateProfile(ctx context.Context, userID string, update *ProfileUpdate) (*models.User, error) {
	params := map[string]interface{}{"userId": userID}
	if update.Name != nil {
		params["name"] = *update.Name
	}
	if update.Phone != nil {
		params["phone"] = *update.Phone
	}
	if update.VehicleType != nil {
		params["vehicleType"] = *update.VehicleType
	}
	if update.BaseAreaID != nil {
		params["baseArea"] = *update.BaseAreaID
	}
	if update.VehicleNumber != nil {
		params["vehicleNumber"] = *update.VehicleNumber
	}

	data, err := c.call(ctx, "updateProfile", params)
	if err != nil {
		return nil, err
	}

	var w wireUser
	if err := decode(data, &w); err != nil {
		return nil, err
	}
	return c.toModel(&w), nil
}

func (c *Client) ChangePassword(ctx context.Context, userID, newPassword string) error {
	_, err := c.call(ctx, "changePassword", map[string]interface{}{
		"userId":      userID,
		"newPassword": newPassword,
	})
	return err
}

func (c *Client) ResetPassword(ctx context.Context, email string) error {
	_, err := c.call(ctx, "resetPassword", map[string]interface{}{
		"email": email,
	})
	return err
}

func (c *Client) BaseAreas(ctx context.Context) ([]models.Area, error) {
	data, err := c.call(ctx, "getBaseAreas", nil)
	if err != nil {
		return nil, err
	}

	var areas []models.Area
	if err := decode(data, &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

func (c *Client) AddBaseArea(ctx context.Context, name string) (*models.Area, error) {
	data, err := c.call(ctx, "addBaseArea", map[string]interface{}{"name": name})
	if err != nil {
		return nil, err
	}

	var area models.Area
	if err := decode(data, &area); err != nil {
		return nil, err
	}
	return &area, nil
}

func (c *Client) UpdateBaseArea(ctx context.Context, id, name string) (*models.Area, error) {
	data, err := c.call(ctx, "updateBaseArea", map[string]interface{}{
		"id":   id,
		"name": name,
	})
	if err != nil {
		return nil, err
	}

	var area models.Area
	if err := decode(data, &area); err != nil {
		return nil, err
	}
	return &area, nil
}

func (c *Client) DeleteBaseArea(ctx context.Context, id string) error {
	_, err := c.call(ctx, "deleteBaseArea", map[string]interface{}{"id": id})
	return err
}

// NearbyVehicles returns the owners the remote side considers close to the
// given point. Proximity filtering is the backend's concern; nothing is
// filtered out here.
func (c *Client) NearbyVehicles(ctx context.Context, lat, lng float64) ([]*models.User, error) {
	data, err := c.call(ctx, "getVehicles", map[string]interface{}{
		"lat": lat,
		"lng": lng,
	})
	if err != nil {
		return nil, err
	}

	var wires []wireUser
	if err := decode(data, &wires); err != nil {
		return nil, err
	}

	owners := make([]*models.User, 0, len(wires))
	for i := range wires {
		wires[i].Role = models.RoleOwner
		owners = append(owners, c.toModel(&wires[i]))
	}
	return owners, nil
}

func (c *Client) ToggleAvailability(ctx context.Context, userID string, isAvailable bool, lat, lng float64) error {
	_, err := c.call(ctx, "toggleAvailability", map[string]interface{}{
		"userId":      userID,
		"isAvailable": isAvailable,
		"lat":         lat,
		"lng":         lng,
	})
	return err
}

func (c *Client) CreatePaymentOrder(ctx context.Context, userID string) (*models.PaymentOrder, error) {
	data, err := c.call(ctx, "createPaymentOrder", map[string]interface{}{"userId": userID})
	if err != nil {
		return nil, err
	}

	var order models.PaymentOrder
	if err := decode(data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ConfirmPayment(ctx context.Context, userID string) (*models.User, error) {
	data, err := c.call(ctx, "confirmPayment", map[string]interface{}{"userId": userID})
	if err != nil {
		return nil, err
	}

	var w wireUser
	if err := decode(data, &w); err != nil {
		return nil, err
	}
	return c.toModel(&w), nil
}

package models

// UserType 用户类型
const (
	UserTypeCustomer = "customer" // 停车用户
	UserTypeOwner    = "owner"    // 车位业主
)

// MaxVehicles 每个用户最多可绑定的车辆数
const MaxVehicles = 3

// Vehicle 用户车辆
type Vehicle struct {
	ID           string `json:"id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	LicensePlate string `json:"licensePlate"`
	Color        string `json:"color"`
}

// User 用户
type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Password string    `json:"password"` // 明文存储，仅用于演示环境
	UserType string    `json:"userType"`
	Vehicles []Vehicle `json:"vehicles"`
}

// IsOwner 是否为业主账号
func (u *User) IsOwner() bool {
	return u.UserType == UserTypeOwner
}

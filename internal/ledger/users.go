package ledger

import (
	"context"

	"github.com/langchou/parkpass/internal/models"
)

// Authenticate 校验邮箱和密码，不匹配时返回 nil
// 明文比对仅用于演示环境，接入真实认证时替换此处
func (s *Store) Authenticate(email, password string) *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.data.Users {
		u := &s.data.Users[i]
		if u.Email == email && u.Password == password {
			out := *u
			return &out
		}
	}
	return nil
}

// CreateUser 创建用户并持久化
func (s *Store) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if len(user.Vehicles) > models.MaxVehicles {
		return nil, ErrVehicleLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = newID("user")
	if user.Vehicles == nil {
		user.Vehicles = []models.Vehicle{}
	}
	for i := range user.Vehicles {
		if user.Vehicles[i].ID == "" {
			user.Vehicles[i].ID = newID("v")
		}
	}

	s.data.Users = append(s.data.Users, user)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	out := user
	return &out, nil
}

// GetUserByID 按 ID 查找用户，不存在时返回 nil
func (s *Store) GetUserByID(id string) *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := s.findUser(id); u != nil {
		out := *u
		return &out
	}
	return nil
}

// UpdateProfile 更新用户昵称和电话，用户不存在时返回 (nil, nil)
func (s *Store) UpdateProfile(ctx context.Context, id, name, phone string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUser(id)
	if u == nil {
		return nil, nil
	}

	u.Name = name
	u.Phone = phone
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	out := *u
	return &out, nil
}

// AddVehicle 为用户添加车辆，超出上限时返回 ErrVehicleLimit
func (s *Store) AddVehicle(ctx context.Context, userID string, vehicle models.Vehicle) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUser(userID)
	if u == nil {
		return nil, nil
	}
	if len(u.Vehicles) >= models.MaxVehicles {
		return nil, ErrVehicleLimit
	}

	vehicle.ID = newID("v")
	u.Vehicles = append(u.Vehicles, vehicle)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	out := *u
	return &out, nil
}

// RemoveVehicle 移除用户车辆
func (s *Store) RemoveVehicle(ctx context.Context, userID, vehicleID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUser(userID)
	if u == nil {
		return nil, nil
	}

	vehicles := u.Vehicles[:0]
	for _, v := range u.Vehicles {
		if v.ID != vehicleID {
			vehicles = append(vehicles, v)
		}
	}
	u.Vehicles = vehicles

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	out := *u
	return &out, nil
}

// findUser 返回指向内部记录的指针，调用方需持有锁
func (s *Store) findUser(id string) *models.User {
	for i := range s.data.Users {
		if s.data.Users[i].ID == id {
			return &s.data.Users[i]
		}
	}
	return nil
}

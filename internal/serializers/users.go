package serializers

import "cemetery_api/internal/models"

type UserRead struct {
	ID           uint        `json:"id"`
	Name         string      `json:"name"`
	Surname      string      `json:"surname"`
	Email        string      `json:"email"`
	Phone        *string     `json:"phone"`
	Role         models.Role `json:"role"`
	RegisteredAt models.Date `json:"registeredAt"`
}

type UserWrite struct {
	Name    string      `json:"name" binding:"required,max=100"`
	Surname string      `json:"surname" binding:"required,max=100"`
	Email   string      `json:"email" binding:"required,email,max=100"`
	Phone   *string     `json:"phone" binding:"omitempty,max=20"`
	Role    models.Role `json:"role" binding:"omitempty,oneof=admin customer"`
}

func ReadUser(u *models.User) UserRead {
	return UserRead{
		ID:           u.ID,
		Name:         u.Name,
		Surname:      u.Surname,
		Email:        u.Email,
		Phone:        u.Phone,
		Role:         u.Role,
		RegisteredAt: u.RegisteredAt,
	}
}

var Users = Mapper[models.User, UserWrite, UserRead]{
	ReadOnly: []string{"id", "registeredAt"},
	From: func(u *models.User) UserWrite {
		return UserWrite{Name: u.Name, Surname: u.Surname, Email: u.Email, Phone: u.Phone, Role: u.Role}
	},
	Apply: func(w *UserWrite, u *models.User) error {
		u.Name, u.Surname, u.Email, u.Phone = w.Name, w.Surname, w.Email, w.Phone
		u.Role = w.Role
		if u.Role == "" {
			u.Role = models.RoleCustomer
		}
		return nil
	},
	Read: ReadUser,
}

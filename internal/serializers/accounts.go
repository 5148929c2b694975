package serializers

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"cemetery_api/internal/apperrors"
	"cemetery_api/internal/models"
)

// AccountRead never carries the password hash.
type AccountRead struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	IsStaff    bool      `json:"isStaff"`
	IsActive   bool      `json:"isActive"`
	DateJoined time.Time `json:"dateJoined"`
}

// AccountWrite takes a plaintext password. It is required when the account
// has none yet and kept unchanged when omitted afterwards.
type AccountWrite struct {
	Username  string  `json:"username" binding:"required,max=150"`
	Password  *string `json:"password" binding:"omitempty,min=8,max=72"`
	Email     string  `json:"email" binding:"omitempty,email,max=254"`
	FirstName string  `json:"firstName" binding:"max=150"`
	LastName  string  `json:"lastName" binding:"max=150"`
	IsStaff   bool    `json:"isStaff"`
	IsActive  *bool   `json:"isActive"`
}

func ReadAccount(a *models.Account) AccountRead {
	return AccountRead{
		ID:         a.ID,
		Username:   a.Username,
		Email:      a.Email,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		IsStaff:    a.IsStaff,
		IsActive:   a.IsActive,
		DateJoined: a.DateJoined,
	}
}

// bcrypt only reads this many bytes of a password.
const maxPasswordBytes = 72

// HashPassword returns the bcrypt hash stored in Account.Password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

var Accounts = Mapper[models.Account, AccountWrite, AccountRead]{
	ReadOnly: []string{"id", "dateJoined", "lastLogin"},
	From: func(a *models.Account) AccountWrite {
		active := a.IsActive
		return AccountWrite{
			Username:  a.Username,
			Email:     a.Email,
			FirstName: a.FirstName,
			LastName:  a.LastName,
			IsStaff:   a.IsStaff,
			IsActive:  &active,
		}
	},
	Apply: func(w *AccountWrite, a *models.Account) error {
		switch {
		case w.Password != nil:
			if len(*w.Password) > maxPasswordBytes {
				return apperrors.NewValidation("password", "Ensure this field has no more than 72 bytes.")
			}
			hash, err := HashPassword(*w.Password)
			if err != nil {
				return err
			}
			a.Password = hash
		case a.Password == "":
			return apperrors.NewValidation("password", "This field is required.")
		}
		a.Username, a.Email, a.FirstName, a.LastName = w.Username, w.Email, w.FirstName, w.LastName
		a.IsStaff = w.IsStaff
		a.IsActive = w.IsActive == nil || *w.IsActive
		return nil
	},
	Read: ReadAccount,
}

// Credentials is the login body.
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRead is returned on successful login. UserID is the account id.
type LoginRead struct {
	Token    string `json:"token"`
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	IsStaff  bool   `json:"isStaff"`
}

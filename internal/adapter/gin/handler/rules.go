package handler

import "user-auth-service/pkg/validation"

const (
	nameMessage     = "Name must be between 3 and 255 characters"
	emailMessage    = "E-mail is invalid"
	passwordMessage = "Password must be between 6 and 32 characters"
	idMessage       = "User id must be a positive number"
)

// Route schemas. Rules for a field run in order and stop at the first failure.
var (
	RegisterSchema = validation.Schema{
		validation.Length("name", 3, 255, nameMessage),
		validation.Email("email", emailMessage),
		validation.Length("password", 6, 32, passwordMessage),
	}

	LoginSchema = validation.Schema{
		validation.Email("email", emailMessage),
		validation.Length("password", 6, 32, passwordMessage),
	}

	CreateUserSchema = RegisterSchema

	UpdateUserSchema = validation.Schema{
		validation.Numeric("id", idMessage),
		validation.Length("name", 3, 255, nameMessage),
	}

	UserIDSchema = validation.Schema{
		validation.Numeric("id", idMessage),
	}
)

package utils

import "golang.org/x/crypto/bcrypt"

// PasswordCost 测试可调成 bcrypt.MinCost
var PasswordCost = bcrypt.DefaultCost

// HashPassword 超过 72 字节返回 bcrypt.ErrPasswordTooLong
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

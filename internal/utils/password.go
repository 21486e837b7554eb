package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a registration password with bcrypt.  The cost comes
// from config (BCRYPT_COST) so tests can run at the cheap end while
// production stays at a real work factor.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a stored hash against a login attempt in constant
// time.  It only answers yes or no; the login handler keeps the failure
// reason indistinguishable from an unknown email.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

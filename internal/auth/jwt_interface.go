package auth

type JWT interface {
	Generate(subject string) (string, error)
	Verify(token string) (*Claims, error)
}

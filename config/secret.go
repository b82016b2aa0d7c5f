package config

// SecretValue is a string that masks itself when printed or logged.
type SecretValue string

func (value SecretValue) Value() string {
	return string(value)
}

func (value SecretValue) String() string {
	if value == "" {
		return ""
	}
	return "*******"
}

func (value SecretValue) MarshalText() ([]byte, error) {
	return []byte(value.String()), nil
}

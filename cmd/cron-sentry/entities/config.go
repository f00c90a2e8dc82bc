package entities

type Config struct {
	Dsn             string            `mapstructure:"dsn" validate:"omitempty,url"`
	StringMaxLength int               `mapstructure:"string_max_length" validate:"required,gt=3"`
	Quiet           bool              `mapstructure:"quiet"`
	Command         []string          `mapstructure:"command" validate:"required"`
	Extra           map[string]string `mapstructure:"extra"`
}

package config

// ServerConfig configures the HTTP API started by "conflow serve".
type ServerConfig struct {
	Addr string `json:"addr"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

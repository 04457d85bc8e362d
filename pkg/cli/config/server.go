package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr         string
	Lang         string
	SecureCookie bool
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("UNIDL_ADDR"),
		},
		&cli.StringFlag{
			Name:        "lang",
			Usage:       "Default UI language when Accept-Language does not match (en, he)",
			Value:       "en",
			Destination: &c.Lang,
			Sources:     cli.EnvVars("UNIDL_LANG"),
		},
		&cli.BoolFlag{
			Name:        "secure-cookie",
			Usage:       "Mark the session cookie Secure (serve behind HTTPS)",
			Destination: &c.SecureCookie,
			Sources:     cli.EnvVars("UNIDL_SECURE_COOKIE"),
		},
	}
}

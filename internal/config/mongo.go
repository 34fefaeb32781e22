package config

import (
	"fmt"
	"net/url"
)

const redactedPassword = "***"

// URI returns the connection string for the mongo engine. Credentials are only
// added if both username and password are set.
func (m MongoConfig) URI() string {
	if !m.hasCredentials() {
		return m.plainURI()
	}

	return m.authenticatedURI(url.UserPassword(m.Username, m.Password).String())
}

// RedactedURI returns URI with the password masked, for logging.
func (m MongoConfig) RedactedURI() string {
	if !m.hasCredentials() {
		return m.plainURI()
	}

	return m.authenticatedURI(url.User(m.Username).String() + ":" + redactedPassword)
}

func (m MongoConfig) hasCredentials() bool {
	return m.Username != "" && m.Password != ""
}

func (m MongoConfig) plainURI() string {
	return fmt.Sprintf("mongodb://%s:%d/%s", m.Host, m.Port, m.Database)
}

func (m MongoConfig) authenticatedURI(userinfo string) string {
	authSource := m.AuthSource
	if authSource == "" {
		authSource = "admin"
	}

	return fmt.Sprintf(
		"mongodb://%s@%s:%d/%s?%s",
		userinfo, m.Host, m.Port, m.Database,
		url.Values{"authSource": []string{authSource}}.Encode(),
	)
}

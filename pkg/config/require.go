package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

// MustDatabase checks that the selected driver has a connection string.
func (c Config) MustDatabase() {
	if c.DBDriver == DriverMongo {
		MustNonEmpty(c.MongoURI, "MONGO_URI")
		return
	}
	MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
}

package state

type DeprecatedOption struct {
	Name        string
	Description string
}

func GetDeprecatedConfigOptions(cfg *Config) []DeprecatedOption {
	returnValue := []DeprecatedOption{}

	if cfg.Database["dsn"] != "" && cfg.Database["url"] == "" {
		returnValue = append(returnValue, DeprecatedOption{
			Name:        "[database.dsn]",
			Description: "It has been renamed to [database.url]",
		})
		cfg.Database["url"] = cfg.Database["dsn"]
		delete(cfg.Database, "dsn")
	}

	if len(returnValue) > 0 {
		return returnValue
	}
	return nil
}

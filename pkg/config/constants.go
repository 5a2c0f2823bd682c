package config

// EnvPrefix namespaces every SABU environment variable.
const EnvPrefix = "SABU"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SABU_DB_DSN"
	EnvDBHost = "SABU_DB_HOST"
	EnvDBUser = "SABU_DB_USER"
	EnvDBName = "SABU_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

// Duplicate-offer tie-break policies for the catalog gateway. Availability
// always wins first; the policy only decides between rows whose availability
// ties.
const (
	DuplicateOfferHighestPrice = "highest-price"
	DuplicateOfferLowestPrice  = "lowest-price"
)

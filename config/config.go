package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del cliente.
type Config struct {
	Chain    ChainConfig    `yaml:"chain"`
	Cache    CacheConfig    `yaml:"cache"`
	Fixtures FixturesConfig `yaml:"fixtures"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// ChainConfig apunta al nodo GenLayer y al contrato de mercados.
type ChainConfig struct {
	RPCURL          string `yaml:"rpc_url"`
	ChainID         int64  `yaml:"chain_id"`
	ContractAddress string `yaml:"contract_address"`
	PrivateKey      string `yaml:"-"` // solo por env, nunca en el YAML
	ReceiptSeconds  int    `yaml:"receipt_interval_seconds"`
	ReceiptRetries  int    `yaml:"receipt_retries"`
}

// CacheConfig controla frescura y concurrencia de la cache de mercados.
type CacheConfig struct {
	StaleSeconds    int `yaml:"stale_seconds"`
	FetchWorkers    int `yaml:"fetch_workers"`
	MutationDelayMs int `yaml:"mutation_delay_ms"`
}

// FixturesConfig apunta al feed estático de partidos.
type FixturesConfig struct {
	URL string `yaml:"url"`
}

// StorageConfig controla dónde se persiste el journal local.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si
// existe. Las variables de entorno sobreescriben el YAML. Si el archivo no
// existe se usan solo env y defaults.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	case os.IsNotExist(err):
		// sin archivo: env + defaults
	default:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// ReceiptInterval devuelve el intervalo de polling de receipts.
func (c *Config) ReceiptInterval() time.Duration {
	return time.Duration(c.Chain.ReceiptSeconds) * time.Second
}

// StaleAfter devuelve la ventana de frescura de la cache de mercados.
func (c *Config) StaleAfter() time.Duration {
	return time.Duration(c.Cache.StaleSeconds) * time.Second
}

// MutationDelay devuelve el debounce del refresh post-escritura.
func (c *Config) MutationDelay() time.Duration {
	return time.Duration(c.Cache.MutationDelayMs) * time.Millisecond
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GENBET_RPC_URL"); v != "" {
		cfg.Chain.RPCURL = v
	}
	if v := os.Getenv("GENBET_CHAIN_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Chain.ChainID = id
		}
	}
	if v := os.Getenv("GENBET_CONTRACT"); v != "" {
		cfg.Chain.ContractAddress = v
	}
	if v := os.Getenv("GENBET_PRIVATE_KEY"); v != "" {
		cfg.Chain.PrivateKey = v
	}
	if v := os.Getenv("GENBET_FIXTURES_URL"); v != "" {
		cfg.Fixtures.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Chain.RPCURL == "" {
		cfg.Chain.RPCURL = "https://studio.genlayer.com/api"
	}
	if cfg.Chain.ChainID == 0 {
		cfg.Chain.ChainID = 61999
	}
	if cfg.Chain.ContractAddress == "" {
		cfg.Chain.ContractAddress = "0x1B2450Cfef068e70B150D7f777437cEc1F35f1D7"
	}
	if cfg.Chain.ReceiptSeconds <= 0 {
		cfg.Chain.ReceiptSeconds = 5
	}
	if cfg.Chain.ReceiptRetries <= 0 {
		cfg.Chain.ReceiptRetries = 30
	}
	if cfg.Cache.StaleSeconds <= 0 {
		cfg.Cache.StaleSeconds = 15
	}
	if cfg.Cache.FetchWorkers <= 0 {
		cfg.Cache.FetchWorkers = 8
	}
	if cfg.Cache.MutationDelayMs <= 0 {
		cfg.Cache.MutationDelayMs = 2000
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "genbet.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Parser struct {
		BaseURL        string   `yaml:"base_url"`       // URL внешнего сервиса парсинга CV
		APIKey         string   `yaml:"api_key"`        //
		TimeoutSeconds int      `yaml:"timeout"`        // Таймаут одного запроса парсинга
		MaxFileSize    int64    `yaml:"max_file_size"`  // Максимальный размер файла в байтах
		AllowedExts    []string `yaml:"allowed_exts"`   // Поддерживаемые расширения
		WorkerInterval int      `yaml:"worker_interval"` // Интервал фонового воркера, секунды
	} `yaml:"parser"`

	Matching struct {
		MaxCVsPerProject int `yaml:"max_cvs_per_project"` // Лимит живых CV на проект
	} `yaml:"matching"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	// .env (если есть) - удобно для локальной разработки
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		log.Println("Загрузка из config.yaml (режим НЕ-тест)")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Загрузка конфигурации из переменных окружения")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Parser.BaseURL = os.Getenv("PARSER_BASE_URL")
	cfg.Parser.APIKey = os.Getenv("PARSER_API_KEY")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Parser.TimeoutSeconds == 0 {
		cfg.Parser.TimeoutSeconds = 60
	}
	if cfg.Parser.MaxFileSize == 0 {
		cfg.Parser.MaxFileSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Parser.AllowedExts) == 0 {
		cfg.Parser.AllowedExts = []string{".pdf", ".doc", ".docx", ".txt"}
	}
	if cfg.Parser.WorkerInterval == 0 {
		cfg.Parser.WorkerInterval = 30
	}
	if cfg.Matching.MaxCVsPerProject == 0 {
		cfg.Matching.MaxCVsPerProject = 10
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

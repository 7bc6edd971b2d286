package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	RedisURL      string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	TokenTTLHours int // JWT 有效期（小时）

	TrendingCacheTTL  int    // 热门 Feed 缓存有效期（秒）
	TokenListURL      string // 代币列表上游 API
	TokenListCacheTTL int    // 代币列表缓存有效期（秒）

	S3 struct {
		Region string
		Bucket string
	}
}

// Load 加载配置，优先级：环境变量 > .env 文件 > 默认值
// DATABASE_URL 兼容历史变量名（POSTGRES_URL / DB_URL），只在这里解析一次
func Load() *Config {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, _ := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "72"))
	trendingTTL, _ := strconv.Atoi(getEnv("TRENDING_CACHE_TTL", "60"))
	tokenListTTL, _ := strconv.Atoi(getEnv("TOKEN_LIST_CACHE_TTL", "300"))

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       firstEnv("DATABASE_URL", "POSTGRES_URL", "DB_URL"),
		RedisURL:          getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenTTLHours:     tokenTTL,
		TrendingCacheTTL:  trendingTTL,
		TokenListURL:      getEnv("TOKEN_LIST_URL", "https://tokens.jup.ag/tokens?tags=verified"),
		TokenListCacheTTL: tokenListTTL,
	}

	cfg.S3.Region = getEnv("AWS_REGION", "us-east-1")
	cfg.S3.Bucket = getEnv("S3_BUCKET_NAME", "wegram-uploads")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// firstEnv 按声明顺序返回第一个非空的环境变量
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

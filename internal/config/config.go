package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port      string
	DBDSN     string
	LogFile   string
	LoanWeeks int     // rental loan period
	Penalty   float64 // charged on late return
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "movierental.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./movierental.log"
	}
	loanWeeks := 2
	if v := os.Getenv("LOAN_WEEKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			loanWeeks = n
		}
	}
	penalty := 5.0
	if v := os.Getenv("PENALTY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			penalty = f
		}
	}

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, LoanWeeks: loanWeeks, Penalty: penalty}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s LOAN_WEEKS=%d PENALTY=%.2f",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.LoanWeeks, cfg.Penalty)
	return cfg
}

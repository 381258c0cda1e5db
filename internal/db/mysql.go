package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

const mysqlDuplicateEntry = 1062

var MySQL = Dialect{
	Name:      "mysql",
	TagUpsert: `INSERT INTO tags (name) VALUES (?) ON DUPLICATE KEY UPDATE name = name`,
	ShareUpsert: `INSERT INTO note_shares (note_id, user_id, permission) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE permission = VALUES(permission)`,
	LockRead: " FOR UPDATE",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(20) NOT NULL UNIQUE,
			email VARCHAR(120) NOT NULL UNIQUE,
			image_file VARCHAR(20) NOT NULL DEFAULT 'default.jpg',
			password VARCHAR(60) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB;`,
		`CREATE TABLE IF NOT EXISTS notes (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			title VARCHAR(100) NOT NULL,
			content TEXT NOT NULL,
			date_posted DATETIME(6) NOT NULL,
			date_updated DATETIME(6) NOT NULL,
			reminder_date DATETIME NULL,
			is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
			INDEX idx_notes_user (user_id),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		) ENGINE=InnoDB;`,
		`CREATE TABLE IF NOT EXISTS tags (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(50) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL UNIQUE
		) ENGINE=InnoDB;`,
		`CREATE TABLE IF NOT EXISTS note_tags (
			note_id INT NOT NULL,
			tag_id INT NOT NULL,
			PRIMARY KEY (note_id, tag_id),
			FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE,
			FOREIGN KEY (tag_id) REFERENCES tags(id)
		) ENGINE=InnoDB;`,
		`CREATE TABLE IF NOT EXISTS note_shares (
			id INT AUTO_INCREMENT PRIMARY KEY,
			note_id INT NOT NULL,
			user_id INT NOT NULL,
			permission VARCHAR(10) NOT NULL DEFAULT 'read',
			UNIQUE KEY uq_note_shares_note_user (note_id, user_id),
			FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		) ENGINE=InnoDB;`,
	},
	isDuplicate: func(err error) bool {
		var me *mysql.MySQLError
		return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
	},
}

// InitMySQL connects to MySQL and creates the schema.
func InitMySQL(user, password, host, dbName string) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = dbName
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}

	if err := Migrate(db, MySQL); err != nil {
		db.Close()
		return nil, err
	}

	zap.L().Info("MySQL connected", zap.String("host", host), zap.String("database", dbName))
	return db, nil
}

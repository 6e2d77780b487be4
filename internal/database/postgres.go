package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	// Set connection pool settings
	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize tables
	if err = InitPostgresTables(); err != nil {
		return err
	}

	return nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables() error {
	queries := []string{
		// Users table (one row per authenticated account: password, magic-link or OAuth)
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255),
			role VARCHAR(20) NOT NULL DEFAULT 'parent',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		// Profiles table (id = auth principal id; synced on every OAuth login)
		`CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY,
			full_name VARCHAR(255),
			first_name VARCHAR(255),
			last_name VARCHAR(255),
			email VARCHAR(255),
			phone VARCHAR(50),
			avatar_url TEXT,
			provider VARCHAR(50),
			provider_id VARCHAR(255),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Contact form submissions
		`CREATE TABLE IF NOT EXISTS contact_submissions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(50),
			child_age VARCHAR(50),
			message TEXT NOT NULL
		)`,

		// Provider referrals
		`CREATE TABLE IF NOT EXISTS referrals (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			referring_provider VARCHAR(255) NOT NULL,
			provider_email VARCHAR(255) NOT NULL,
			provider_phone VARCHAR(50),
			clinic_name VARCHAR(255) NOT NULL,
			clinic_address TEXT,
			client_name VARCHAR(255) NOT NULL,
			client_age VARCHAR(50),
			client_email VARCHAR(255),
			client_phone VARCHAR(50),
			primary_concerns TEXT NOT NULL,
			current_services TEXT,
			insurance_info TEXT,
			urgency_level VARCHAR(20),
			additional_notes TEXT,
			preferred_contact_method VARCHAR(20),
			referral_date VARCHAR(50),
			status VARCHAR(20) NOT NULL DEFAULT 'new'
		)`,

		// Program interest (group sessions / family retreat)
		`CREATE TABLE IF NOT EXISTS program_interest (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			email VARCHAR(255) NOT NULL,
			program VARCHAR(20) NOT NULL,
			note TEXT
		)`,

		// Emoji feedback from the floating bubble
		`CREATE TABLE IF NOT EXISTS feedback (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			emoji VARCHAR(10) NOT NULL,
			feedback TEXT,
			page VARCHAR(255) NOT NULL
		)`,

		// Kid portal display profiles
		`CREATE TABLE IF NOT EXISTS kid_profiles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			display_name VARCHAR(255) NOT NULL,
			avatar VARCHAR(10),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Parent portal display profiles
		`CREATE TABLE IF NOT EXISTS parent_profiles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			display_name VARCHAR(255) NOT NULL,
			phone VARCHAR(50),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Create indexes for better performance
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email))`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_email ON profiles(email)`,
		`CREATE INDEX IF NOT EXISTS idx_contact_submissions_created_at ON contact_submissions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_contact_submissions_email ON contact_submissions(email)`,
		`CREATE INDEX IF NOT EXISTS idx_referrals_created_at ON referrals(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_referrals_status ON referrals(status)`,
		`CREATE INDEX IF NOT EXISTS idx_program_interest_created_at ON program_interest(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_program_interest_email ON program_interest(email)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_page ON feedback(page)`,
		`CREATE INDEX IF NOT EXISTS idx_kid_profiles_user_id ON kid_profiles(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_parent_profiles_user_id ON parent_profiles(user_id)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}

package repository

const (
	createUserQuery = `INSERT INTO users (username, email, password)
					VALUES ($1, $2, $3) RETURNING *`
	findByEmailQuery = `SELECT user_id, username, email, password, created_at, updated_at FROM users
					WHERE email = $1`
	getUserQuery = `SELECT user_id, username, email, password, created_at, updated_at FROM users
					WHERE user_id = $1`
)

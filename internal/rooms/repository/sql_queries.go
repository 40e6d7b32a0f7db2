package repository

const (
	createRoomQuery = `INSERT INTO rooms (name, description, status, created_by)
					VALUES ($1, $2, $3, $4) RETURNING *`
	getRoomByIDQuery = `SELECT room_id, name, description, status, created_by, video_key, created_at, updated_at
					FROM rooms WHERE room_id = $1 AND status != 'deleted'`
	getRoomsByUserQuery = `SELECT room_id, name, description, status, created_by, video_key, created_at, updated_at
					FROM rooms WHERE created_by = $1 AND status != 'deleted' ORDER BY created_at DESC`
	updateRoomQuery = `UPDATE rooms SET name = $2, description = $3, updated_at = now()
					WHERE room_id = $1 AND status != 'deleted' RETURNING *`
	updateRoomStatusQuery = `UPDATE rooms SET status = $2, updated_at = now()
					WHERE room_id = $1`
	setVideoKeyQuery = `UPDATE rooms SET video_key = $2, updated_at = now()
					WHERE room_id = $1 AND status != 'deleted' RETURNING *`
)

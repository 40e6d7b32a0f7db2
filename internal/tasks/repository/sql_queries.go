package repository

const (
	createTaskQuery = `INSERT INTO video_tasks (video_url, title, status, created_by)
					VALUES ($1, $2, $3, $4) RETURNING *`
	getTaskByIDQuery = `SELECT task_id, video_url, title, status, created_by, tiers, error_message, created_at, updated_at
					FROM video_tasks WHERE task_id = $1`
	getTasksByUserQuery = `SELECT task_id, video_url, title, status, created_by, tiers, error_message, created_at, updated_at
					FROM video_tasks WHERE created_by = $1 ORDER BY created_at DESC`
	findByOwnerAndKeyQuery = `SELECT task_id, video_url, title, status, created_by, tiers, error_message, created_at, updated_at
					FROM video_tasks WHERE created_by = $1 AND video_url = $2`
	transitionStatusQuery = `UPDATE video_tasks SET status = $3, updated_at = now()
					WHERE task_id = $1 AND status = $2`
	setStatusQuery = `UPDATE video_tasks SET status = $2, updated_at = now()
					WHERE task_id = $1`
	setResultQuery = `UPDATE video_tasks SET status = $2, tiers = $3, error_message = $4, updated_at = now()
					WHERE task_id = $1`
	deleteTaskQuery = `DELETE FROM video_tasks WHERE task_id = $1 AND created_by = $2`
)

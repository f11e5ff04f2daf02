package constants

// Raw SQL used by the sqlx report repository.

const GetReportByDate = `
	SELECT id, project_name, report_date, status, payload, created_at, updated_at
	FROM reports
	WHERE report_date = $1 AND deleted_at IS NULL
	ORDER BY updated_at DESC
	LIMIT 1;
`

const GetReportByID = `
	SELECT id, project_name, report_date, status, payload, created_at, updated_at
	FROM reports
	WHERE id = $1 AND deleted_at IS NULL;
`

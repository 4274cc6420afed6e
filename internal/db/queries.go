package db

const (
	insertItem = `
		INSERT INTO items (code, name, description, gtin, unit_label, vendor)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	getItemByID = `
		SELECT id, code, name, description, gtin, unit_label, vendor, created_at, updated_at
		FROM items WHERE id = ?
	`

	listItems = `
		SELECT id, code, name, description, gtin, unit_label, vendor, created_at, updated_at
		FROM items ORDER BY code ASC
	`
)

const (
	insertLot = `
		INSERT INTO lots (lot_code, item_id, quantity, pack_date, expiry_date)
		VALUES (?, ?, ?, ?, ?)
	`

	getLotByCode = `
		SELECT id, lot_code, item_id, quantity, pack_date, expiry_date, created_at
		FROM lots WHERE lot_code = ?
	`

	listLots = `
		SELECT id, lot_code, item_id, quantity, pack_date, expiry_date, created_at
		FROM lots ORDER BY created_at DESC LIMIT ? OFFSET ?
	`

	getLotRecordByCode = `
		SELECT l.lot_code, l.quantity, l.pack_date, l.expiry_date,
		       i.code, i.name, i.description, i.gtin, i.unit_label, i.vendor
		FROM lots l
		JOIN items i ON i.id = l.item_id
		WHERE l.lot_code = ?
	`
)

const (
	insertPrinter = `
		INSERT INTO printers (name, ip_address, port, dpi, label_width_in, label_height_in, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	getPrinterByID = `
		SELECT id, name, ip_address, port, dpi, label_width_in, label_height_in, status, last_seen_at, total_prints, created_at, updated_at
		FROM printers WHERE id = ?
	`

	listPrinters = `
		SELECT id, name, ip_address, port, dpi, label_width_in, label_height_in, status, last_seen_at, total_prints, created_at, updated_at
		FROM printers ORDER BY name ASC
	`

	updatePrinter = `
		UPDATE printers SET
			name = ?, ip_address = ?, port = ?, dpi = ?,
			label_width_in = ?, label_height_in = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	updatePrinterStatus = `
		UPDATE printers SET status = ?, last_seen_at = CURRENT_TIMESTAMP WHERE id = ?
	`

	incrementPrinterPrints = `
		UPDATE printers SET total_prints = total_prints + ? WHERE id = ?
	`

	deletePrinter = `DELETE FROM printers WHERE id = ?`
)

const (
	insertJob = `
		INSERT INTO print_jobs (batch_id, lot_code, printer_id, profile, copies, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	getJobByID = `
		SELECT id, batch_id, lot_code, printer_id, profile, copies, status, error_message, created_at, started_at, completed_at
		FROM print_jobs WHERE id = ?
	`

	listJobs = `
		SELECT id, batch_id, lot_code, printer_id, profile, copies, status, error_message, created_at, started_at, completed_at
		FROM print_jobs %s ORDER BY created_at DESC LIMIT ? OFFSET ?
	`

	markJobPrinting = `
		UPDATE print_jobs SET status = ?, started_at = CURRENT_TIMESTAMP WHERE id = ?
	`

	markJobTerminal = `
		UPDATE print_jobs SET status = ?, error_message = ?, completed_at = CURRENT_TIMESTAMP WHERE id = ?
	`
)

const (
	getSetting = `SELECT key, value, updated_at FROM settings WHERE key = ?`

	setSetting = `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
)

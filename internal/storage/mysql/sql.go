package mysql

const upsertHotelSQL = `
INSERT INTO hotels (id, name)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  updated_at = CURRENT_TIMESTAMP
`

const deleteRoomsSQL = `DELETE FROM rooms WHERE hotel_id = ?`

const insertRoomsPrefix = "INSERT INTO rooms (hotel_id, position, room_type, room_id)\nVALUES "

const deleteBookingsSQL = `DELETE FROM bookings WHERE hotel_id = ?`

const insertBookingsPrefix = "INSERT INTO bookings (hotel_id, room_type, arrival, departure)\nVALUES "

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Hotels joined with their rooms in catalog order; hotels without rooms
// come back once with NULL room columns.
const listHotelsSQL = `
SELECT
  h.id,
  h.name,
  r.room_type,
  r.room_id
FROM hotels h
LEFT JOIN rooms r ON r.hotel_id = h.id
ORDER BY h.id, r.position
`

const listBookingsSQL = `
SELECT hotel_id, room_type, arrival, departure
FROM bookings
ORDER BY hotel_id, room_type, arrival, id
`

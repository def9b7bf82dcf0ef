package outbox

// topic is where notifications wait in Postgres until the forwarder moves them to Redis.
const topic = "ledger_notifications_to_forward"

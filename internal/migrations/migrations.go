package migrations

import (
	"database/sql"

	"github.com/lopezator/migrator"
)

func Up(db *sql.DB) error {
	m, err := migrator.New(
		migrator.Migrations(
			&migrator.MigrationNoTx{
				Name: "Create orders table",
				Func: createOrdersTable,
			},
		),
	)
	if err != nil {
		return err
	}

	return m.Migrate(db)
}

func createOrdersTable(db *sql.DB) error {
	if _, err := db.Exec("CREATE TYPE payment_status AS ENUM ('unpaid', 'pending', 'paid')"); err != nil {
		return err
	}

	if _, err := db.Exec("CREATE TYPE conversion_status AS ENUM ('created', 'processing', 'completed', 'failed')"); err != nil {
		return err
	}

	_, err := db.Exec(`
CREATE TABLE orders
(
    id             uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id        varchar(36)       NOT NULL,
    original_path  varchar(500)      NOT NULL,
    original_name  varchar(255)      NOT NULL,
    converted_path varchar(500),
    payment_ref    varchar(50) UNIQUE,
    payment_status payment_status    NOT NULL DEFAULT 'unpaid',
    status         conversion_status NOT NULL DEFAULT 'created',
    amount         real              NOT NULL,
    CHECK (amount > 0),
    CHECK ((status = 'completed') = (converted_path IS NOT NULL)),
    currency       varchar(3)        NOT NULL,
    uploaded_at    timestamptz       NOT NULL DEFAULT now()
)
	`)

	return err
}

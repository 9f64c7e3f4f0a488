package spentbook

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"notemint/jsonx"
	"notemint/keys"
	"notemint/transaction"
)

const createSpentbookTable = `CREATE TABLE IF NOT EXISTS spentbook (
	unique_pubkey TEXT PRIMARY KEY,
	spend         JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresSpentbook records spends in a relational table. The primary
// key arbitrates concurrent inserts, so many processes can share one
// book; whoever loses the insert race reads back the winner.
type PostgresSpentbook struct {
	db *sql.DB
}

func NewPostgresSpentbook(dsn string) (*PostgresSpentbook, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	if _, err := sqlDB.Exec(createSpentbookTable); err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "create spentbook table")
	}
	return &PostgresSpentbook{db: sqlDB}, nil
}

// InsertIfAbsent implements Spentbook.
func (p *PostgresSpentbook) InsertIfAbsent(id keys.UniquePubkey, spend *transaction.SignedSpend) (*transaction.SignedSpend, bool, error) {
	if spend == nil {
		return nil, false, ErrNilSpend
	}
	payload, err := jsonx.Marshal(spend)
	if err != nil {
		return nil, false, errors.Wrapf(err, "encode spend %s", id)
	}

	res, err := p.db.Exec(
		`INSERT INTO spentbook (unique_pubkey, spend) VALUES ($1, $2)
		 ON CONFLICT (unique_pubkey) DO NOTHING`,
		id.String(), payload,
	)
	if err != nil {
		return nil, false, errors.Wrapf(err, "insert spend %s", id)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, false, errors.Wrap(err, "rows affected")
	}
	if rows == 1 {
		return spend, true, nil
	}

	existing, err := p.Get(id)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		// The table is append-only; losing the race and then finding
		// nothing means something else is deleting rows.
		return nil, false, errors.Errorf("spentbook row for %s vanished", id)
	}
	return existing, false, nil
}

// Get implements Spentbook.
func (p *PostgresSpentbook) Get(id keys.UniquePubkey) (*transaction.SignedSpend, error) {
	var payload []byte
	err := p.db.QueryRow(
		`SELECT spend FROM spentbook WHERE unique_pubkey = $1`,
		id.String(),
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select spend %s", id)
	}
	spend := &transaction.SignedSpend{}
	if err := jsonx.Unmarshal(payload, spend); err != nil {
		return nil, errors.Wrapf(err, "decode stored spend %s", id)
	}
	return spend, nil
}

// ForEach visits every recorded spend in identity order. The callback
// returns false to stop early.
func (p *PostgresSpentbook) ForEach(fn func(*transaction.SignedSpend) bool) error {
	rows, err := p.db.Query(`SELECT spend FROM spentbook ORDER BY unique_pubkey`)
	if err != nil {
		return errors.Wrap(err, "select spends")
	}
	defer rows.Close()

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return errors.Wrap(err, "scan spend row")
		}
		spend := &transaction.SignedSpend{}
		if err := jsonx.Unmarshal(payload, spend); err != nil {
			return errors.Wrap(err, "decode stored spend")
		}
		if !fn(spend) {
			return nil
		}
	}
	return errors.Wrap(rows.Err(), "iterate spends")
}

func (p *PostgresSpentbook) Close() error {
	return p.db.Close()
}

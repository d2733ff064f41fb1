package samples

import (
	"fmt"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/sql"
)

// AddSuccessful adds count successful control samples to a partner's bucket.
func AddSuccessful(db sql.Executor, partner string, bucket types.Bucket, count int) error {
	if _, err := db.Exec(`insert into successful_samples (partner, bucket, count) values (?1, ?2, ?3)
		on conflict(partner, bucket) do update set count = count + ?3;`,
		func(stmt *sql.Statement) {
			stmt.BindText(1, partner)
			stmt.BindInt64(2, int64(bucket))
			stmt.BindInt64(3, int64(count))
		}, nil); err != nil {
		return fmt.Errorf("add successful samples %s/%d: %w", partner, bucket, err)
	}
	return nil
}

// CountSuccessful sums successful samples of a partner in buckets since the given one.
func CountSuccessful(db sql.Executor, partner string, since types.Bucket) (int, error) {
	var count int
	if _, err := db.Exec(`select coalesce(sum(count), 0) from successful_samples
		where partner = ?1 and bucket >= ?2;`,
		func(stmt *sql.Statement) {
			stmt.BindText(1, partner)
			stmt.BindInt64(2, int64(since))
		}, func(stmt *sql.Statement) bool {
			count = stmt.ColumnInt(0)
			return false
		}); err != nil {
		return 0, fmt.Errorf("count successful samples %s: %w", partner, err)
	}
	return count, nil
}

// AddFailed records a failed control sample. A previous failure for the same
// partner and address is replaced.
func AddFailed(db sql.Executor, sample types.FailedSample) error {
	if _, err := db.Exec(`insert into failed_samples (partner, address, bucket) values (?1, ?2, ?3)
		on conflict(partner, address) do update set bucket = ?3;`,
		func(stmt *sql.Statement) {
			stmt.BindText(1, sample.Partner)
			stmt.BindText(2, sample.Address)
			stmt.BindInt64(3, int64(sample.Bucket))
		}, nil); err != nil {
		return fmt.Errorf("add failed sample %s/%s: %w", sample.Partner, sample.Address, err)
	}
	return nil
}

// CountFailed counts failed samples of a partner in buckets since the given one.
func CountFailed(db sql.Executor, partner string, since types.Bucket) (int, error) {
	var count int
	if _, err := db.Exec(`select count(*) from failed_samples where partner = ?1 and bucket >= ?2;`,
		func(stmt *sql.Statement) {
			stmt.BindText(1, partner)
			stmt.BindInt64(2, int64(since))
		}, func(stmt *sql.Statement) bool {
			count = stmt.ColumnInt(0)
			return false
		}); err != nil {
		return 0, fmt.Errorf("count failed samples %s: %w", partner, err)
	}
	return count, nil
}

// DeleteBefore removes samples of all partners in buckets older than the given one.
func DeleteBefore(db sql.Executor, before types.Bucket) error {
	for _, table := range []string{"successful_samples", "failed_samples"} {
		if _, err := db.Exec("delete from "+table+" where bucket < ?1;",
			func(stmt *sql.Statement) {
				stmt.BindInt64(1, int64(before))
			}, nil); err != nil {
			return fmt.Errorf("delete %s before %d: %w", table, before, err)
		}
	}
	return nil
}

// DeletePartner removes all samples of a partner.
func DeletePartner(db sql.Executor, partner string) error {
	for _, table := range []string{"successful_samples", "failed_samples"} {
		if _, err := db.Exec("delete from "+table+" where partner = ?1;",
			func(stmt *sql.Statement) {
				stmt.BindText(1, partner)
			}, nil); err != nil {
			return fmt.Errorf("delete %s of %s: %w", table, partner, err)
		}
	}
	return nil
}

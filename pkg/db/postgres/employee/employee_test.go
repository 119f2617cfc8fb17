package employee_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v4"

	"github.com/tonearm/labeld/internal/testutils/fakedb"
	"github.com/tonearm/labeld/pkg/cmp"
	kdb "github.com/tonearm/labeld/pkg/db"
	"github.com/tonearm/labeld/pkg/db/postgres/employee"
	"github.com/tonearm/labeld/pkg/utils/try"
)

func ref[T any](v T) *T { return &v }

func TestUpdate_managerChain(t *testing.T) {
	ctx := context.Background()

	// chain maps an employee to its manager; absent means no manager.
	newPool := func(chain map[string]string) *fakedb.Pool {
		pool := &fakedb.Pool{}
		pool.OnQueryRow = func(sql string, args []interface{}) pgx.Row {
			switch {
			case strings.Contains(sql, "count"):
				return fakedb.Row(1)
			case strings.Contains(sql, `"active"`):
				return fakedb.Row(true)
			case strings.Contains(sql, `"manager_id"`):
				if managerId, ok := chain[args[0].(string)]; ok {
					return fakedb.Row(ref(managerId))
				}
				return fakedb.Row(nil)
			}
			return fakedb.NoRow()
		}
		return pool
	}

	spec := kdb.EmployeeSpec{
		Name: "Alice", Email: "alice@example.com", Title: "A&R",
	}

	t.Run("when the employee is its own manager, it should be refused", func(t *testing.T) {
		pool := newPool(nil)
		testee := employee.New(pool)

		s := spec
		s.ManagerId = ref("e-1")
		err := testee.Update(ctx, "e-1", s)

		cyclic := new(kdb.ErrCyclicManager)
		if !errors.As(err, cyclic) {
			t.Fatalf("expected cyclic manager error, got: %v", err)
		}
		if pool.Commits != 0 {
			t.Error("nothing should be committed")
		}
		if len(pool.Execs) != 1 { // only the table lock
			t.Errorf("no update should be sent: %+v", pool.Execs)
		}
	})

	t.Run("when the manager chain reaches the employee, it should be refused", func(t *testing.T) {
		pool := newPool(map[string]string{"m-1": "m-2", "m-2": "e-1"})
		testee := employee.New(pool)

		s := spec
		s.ManagerId = ref("m-1")
		err := testee.Update(ctx, "e-1", s)

		cyclic := new(kdb.ErrCyclicManager)
		if !errors.As(err, cyclic) {
			t.Fatalf("expected cyclic manager error, got: %v", err)
		}
		if cyclic.EmployeeId != "e-1" || cyclic.ManagerId != "m-1" {
			t.Errorf("unmatch: %+v", cyclic)
		}
		if pool.Commits != 0 {
			t.Error("nothing should be committed")
		}
	})

	t.Run("a pre-existing cycle above the manager should not block the change", func(t *testing.T) {
		// m-1 and m-2 already report to each other; e-1 is not on that loop
		pool := newPool(map[string]string{"m-1": "m-2", "m-2": "m-1"})
		testee := employee.New(pool)

		s := spec
		s.ManagerId = ref("m-1")
		if err := testee.Update(ctx, "e-1", s); err != nil {
			t.Fatal(err)
		}
		if pool.Commits != 1 {
			t.Errorf("the update should be committed, commits = %d", pool.Commits)
		}
	})

	t.Run("when the manager is deactivated, it should be refused", func(t *testing.T) {
		pool := newPool(nil)
		pool.OnQueryRow = func(sql string, args []interface{}) pgx.Row {
			switch {
			case strings.Contains(sql, "count"):
				return fakedb.Row(1)
			case strings.Contains(sql, `"active"`):
				return fakedb.Row(false)
			}
			return fakedb.NoRow()
		}
		testee := employee.New(pool)

		s := spec
		s.ManagerId = ref("m-1")
		err := testee.Update(ctx, "e-1", s)
		if !errors.Is(err, kdb.ErrConflict) {
			t.Errorf("expected conflict, got: %v", err)
		}
	})
}

func TestSubordinates(t *testing.T) {
	ctx := context.Background()

	t.Run("the whole subtree should be collected, once per employee", func(t *testing.T) {
		// e-1 manages b and c; b manages d; d manages b (a loop) and e-1
		reports := map[string][]string{
			"e-1": {"b", "c"},
			"b":   {"d"},
			"d":   {"b", "e-1"},
		}

		pool := &fakedb.Pool{}
		pool.OnQueryRow = func(sql string, args []interface{}) pgx.Row {
			return fakedb.Row(1)
		}
		pool.OnQuery = func(sql string, args []interface{}) (pgx.Rows, error) {
			records := [][]interface{}{}
			for _, managerId := range args[0].([]string) {
				for _, subordinateId := range reports[managerId] {
					records = append(records, []interface{}{subordinateId})
				}
			}
			return fakedb.Rows(records...), nil
		}

		testee := employee.New(pool)
		subordinateIds := try.To(testee.Subordinates(ctx, "e-1")).OrFatal(t)

		if !cmp.SliceEq(subordinateIds, []string{"b", "c", "d"}) {
			t.Errorf("unmatch: %v", subordinateIds)
		}
	})

	t.Run("when the employee is unknown, it should be missing", func(t *testing.T) {
		pool := &fakedb.Pool{}
		pool.OnQueryRow = func(sql string, args []interface{}) pgx.Row {
			return fakedb.Row(0)
		}

		testee := employee.New(pool)
		if _, err := testee.Subordinates(ctx, "e-gone"); !errors.Is(err, kdb.ErrMissing) {
			t.Errorf("expected ErrMissing, got: %v", err)
		}
	})
}

// Package feedback stores viewer feedback about the report in an append-only
// CSV log.
//
// A Record is validated before it is written. Log serializes appends within
// the process so that the header row is written exactly once, when the file is
// new or empty, and every accepted submission adds exactly one data row:
//
//	timestamp,name,role,rating,comments
//	2024-11-02T09:30:00Z,Linh,Professor,5,Clear structure
//
// Example usage:
//
//	log := feedback.NewLog("data/feedback_log.csv", logger)
//	rec := feedback.NewRecord("Linh", feedback.RoleProfessor, 5, "Clear structure", time.Now())
//	if err := log.Append(ctx, rec); err != nil {
//		// errors.Is(err, feedback.ErrInvalidRecord) or feedback.ErrWriteFailed
//	}
//
// Writers in other processes are not coordinated.
package feedback

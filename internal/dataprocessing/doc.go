// Package dataprocessing turns a folder of meter exports into a cleaned
// summary table and a 24h power profile.
//
// # Architecture
//
// The engine runs five stages in order:
//
// 1. Merge: TableMerger reads every file and concatenates the rows under the
// header of the first file.
// 2. Summary: FilterActive drops the rows whose power reads exactly zero.
// 3. Normalize: blank cells become 0 for the profile path only.
// 4. Keying: TimeKeyDeriver parses "D.M.YYYY HH:MM" timestamps into
// (date, slot) readings, deduplicates them and keeps the grid slots.
// 5. Pivot: BuildPivot reshapes readings into a slot x date matrix and
// Aggregate derives the mean and maximum per slot after the loss correction.
//
// # Usage
//
//	engine := dataprocessing.NewEngine(
//	    dataprocessing.NewExcelReader(logger),
//	    cfg.Pipeline,
//	    dataprocessing.WithLogger(logger),
//	)
//	res, err := engine.Run(ctx, paths)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Stats.SummaryRows, len(res.Profile.Slots))
//
// # Data Flow
//
//	Excel files -> Merged table -> Summary table
//	                            -> Normalized table -> Readings -> Pivot -> Profile
//
// # Error Handling
//
// Errors are *errors.AppError values: EMPTY_INPUT and FILE_READ for input
// the user can fix by picking another folder, SCHEMA and TIMESTAMP_FORMAT
// for malformed data. A failed run never returns a partial Result.
package dataprocessing

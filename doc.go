// Package labdup detects patients whose lab-study records are exactly
// identical to another patient's, within an in-memory dataset.
//
// Two detectors implement the same contract. LinearDetector compares every
// record with all earlier ones and serves as the baseline. HashDetector
// inserts every record into a chained hash table sized to a prime and reads
// duplicate groups from the chains, reporting collision and occupancy
// statistics alongside the count.
//
// # Basic Usage
//
//	rs, err := labdup.LoadRecords("patients.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	det, err := labdup.NewHashDetector(labdup.HashPolynomial)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report := det.Detect(rs)
//	fmt.Println(report)
//	fmt.Printf("collisions: %d\n", report.Table.Collisions)
//
// # Package Structure
//
//   - Records: record.go (Record, RecordSet), loader.go (LoadRecords, ReadRecords, ParseRecords)
//   - Detectors: linear.go (LinearDetector), hash_detector.go (HashDetector), table.go (chained table)
//   - Hash functions: hash_kind.go (HashKind), hash_func.go (variants)
//   - Configuration: options.go (Option, With* functions)
//   - Table sizing: internal/prime
//   - Platform: advise_*.go (read-ahead hints for record files)
package labdup

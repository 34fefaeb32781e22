// Command docquery answers MongoDB shell style statements against a document collection
// stored in MongoDB, in Postgres JSONB, or in memory.
//
//	docquery serve
//	docquery query "db.alarm_info.find({'level': 'critical'}).sort({'start_time': -1}).limit(10)"
//	docquery shell
//	docquery load alarms.jsonl
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

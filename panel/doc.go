// Package panel turns rating-style panel tables into ctmc datasets.
//
// A panel row is (subject id, observation date, category label). Conversion:
//
//  1. ReadCSV parses id,date,label rows (dates in RFC 3339 or 2006-01-02).
//  2. LabelEncoder maps labels to states [0, n); RatingLabels is the default
//     AAA … D scale.
//  3. TableTransform sorts by subject then date, collapses consecutive equal
//     states, and measures each spell in years (YearFrac) up to the next
//     change. The last spell of every subject ends at the table-wide last
//     date, or at the subject's own last observation with WithSubjectEnd;
//     subjects with fewer than two spells are dropped.
package panel

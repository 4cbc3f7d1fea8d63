// fixtures.go - Shared test fixtures
package testutil

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/csv-analyst/backend/internal/dataset"
	"github.com/csv-analyst/backend/internal/models"
)

// QuietLogger returns a logger that discards output, for tests that only
// care about return values.
func QuietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// PassengerCSV is a small passenger manifest covering the column concepts
// the analysis engine keys on.
const PassengerCSV = `PassengerId,Survived,Pclass,Sex,Age,Fare,Embarked,SibSp,Parch
1,0,3,male,22,7.25,S,1,0
2,1,1,female,38,71.28,C,1,0
3,1,3,female,26,7.92,S,0,0
4,1,1,female,35,53.1,S,1,0
5,0,3,male,35,8.05,S,0,0
6,0,3,male,,8.46,Q,0,0
`

// PassengerTable parses PassengerCSV into a Table, failing the test via
// panic on parse errors since the fixture is static.
func PassengerTable() *models.Table {
	table, err := dataset.Load("passengers.csv", []byte(PassengerCSV))
	if err != nil {
		panic("parsing static fixture: " + err.Error())
	}
	return table
}

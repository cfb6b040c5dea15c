package postgres

import "strconv"

func itoa(i int) string {
	return strconv.Itoa(i)
}

func whereOrAnd(idx int) string {
	if idx == 1 {
		return " WHERE"
	}
	return " AND"
}

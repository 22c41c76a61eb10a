package entity

type Slot struct {
	ID        int
	Date      string // 2006-01-02
	Time      string // 15:04
	Available bool
}

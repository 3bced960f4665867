package domain

// OrderBoard заказы, разложенные по статусам
type OrderBoard struct {
	New        []Order `json:"new"`
	InProgress []Order `json:"inProgress"`
	Completed  []Order `json:"completed"`
	Canceled   []Order `json:"canceled"`
}

// PartitionByStatus puts every order into exactly one bucket, keeping the
// input order inside each bucket. Orders with an unknown status land in New.
func PartitionByStatus(orders []Order) OrderBoard {
	b := OrderBoard{
		New:        make([]Order, 0),
		InProgress: make([]Order, 0),
		Completed:  make([]Order, 0),
		Canceled:   make([]Order, 0),
	}
	for _, o := range orders {
		switch o.Status {
		case OrderStatusInProgress:
			b.InProgress = append(b.InProgress, o)
		case OrderStatusCompleted:
			b.Completed = append(b.Completed, o)
		case OrderStatusCanceled:
			b.Canceled = append(b.Canceled, o)
		default:
			b.New = append(b.New, o)
		}
	}
	return b
}

// Len is the total number of orders on the board.
func (b OrderBoard) Len() int {
	return len(b.New) + len(b.InProgress) + len(b.Completed) + len(b.Canceled)
}

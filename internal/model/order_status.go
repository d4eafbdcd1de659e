package model

// Статус заказа. Набор закрыт: любые значения вне списка считаются ошибкой.
type OrderStatus string

const (
	OrderStatusRequested OrderStatus = "requested"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusDeclined  OrderStatus = "declined"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusNoShow    OrderStatus = "no_show"
)

// Операция жизненного цикла заказа.
type OrderOperation string

const (
	OperationCreate     OrderOperation = "create"
	OperationApprove    OrderOperation = "approve"
	OperationDecline    OrderOperation = "decline"
	OperationCancel     OrderOperation = "cancel"
	OperationComplete   OrderOperation = "complete"
	OperationNoShow     OrderOperation = "mark_no_show"
	OperationReschedule OrderOperation = "reschedule"
)

type transitionRule struct {
	from []OrderStatus
	// Пустое значение: операция не меняет статус (перенос).
	to OrderStatus
	// Слот освобождается при успешном переходе.
	releasesSlot bool
}

// Единая таблица переходов. Все проверки статусов идут только через неё.
var orderTransitions = map[OrderOperation]transitionRule{
	OperationCreate:     {from: nil, to: OrderStatusRequested},
	OperationApprove:    {from: []OrderStatus{OrderStatusRequested}, to: OrderStatusApproved},
	OperationDecline:    {from: []OrderStatus{OrderStatusRequested}, to: OrderStatusDeclined, releasesSlot: true},
	OperationCancel:     {from: []OrderStatus{OrderStatusRequested, OrderStatusApproved}, to: OrderStatusCancelled, releasesSlot: true},
	OperationComplete:   {from: []OrderStatus{OrderStatusApproved}, to: OrderStatusCompleted},
	OperationNoShow:     {from: []OrderStatus{OrderStatusApproved}, to: OrderStatusNoShow},
	OperationReschedule: {from: []OrderStatus{OrderStatusRequested, OrderStatusApproved}},
}

var allStatuses = []OrderStatus{
	OrderStatusRequested,
	OrderStatusApproved,
	OrderStatusDeclined,
	OrderStatusCancelled,
	OrderStatusCompleted,
	OrderStatusNoShow,
}

// ActiveOrderStatuses: статусы, при которых заказ удерживает слот как живую бронь.
var ActiveOrderStatuses = []OrderStatus{OrderStatusRequested, OrderStatusApproved}

func (s OrderStatus) IsValid() bool {
	for _, v := range allStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal: из статуса нет исходящих переходов.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDeclined, OrderStatusCancelled, OrderStatusCompleted, OrderStatusNoShow:
		return true
	default:
		return false
	}
}

// Next возвращает статус после операции или *InvalidTransitionError.
// Для переноса возвращается текущий статус.
func (op OrderOperation) Next(current OrderStatus) (OrderStatus, error) {
	rule, ok := orderTransitions[op]
	if !ok || op == OperationCreate {
		return current, &InvalidTransitionError{Current: current, Attempted: op}
	}
	for _, from := range rule.from {
		if from == current {
			if rule.to == "" {
				return current, nil
			}
			return rule.to, nil
		}
	}
	return current, &InvalidTransitionError{Current: current, Attempted: op}
}

// ReleasesSlot: после операции слот заказа возвращается в пул.
func (op OrderOperation) ReleasesSlot() bool {
	return orderTransitions[op].releasesSlot
}

// AllowedFrom перечисляет исходные статусы операции.
func (op OrderOperation) AllowedFrom() []OrderStatus {
	rule := orderTransitions[op]
	out := make([]OrderStatus, len(rule.from))
	copy(out, rule.from)
	return out
}

// Operations возвращает все операции, кроме создания.
func Operations() []OrderOperation {
	return []OrderOperation{
		OperationApprove,
		OperationDecline,
		OperationCancel,
		OperationComplete,
		OperationNoShow,
		OperationReschedule,
	}
}

// AllOrderStatuses возвращает копию полного набора статусов.
func AllOrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// IsValidStep проверяет пару (prev, next) записи истории на соответствие таблице.
// prev == nil означает создание заказа.
func IsValidStep(prev *OrderStatus, op OrderOperation, next OrderStatus) bool {
	if prev == nil {
		return op == OperationCreate && next == OrderStatusRequested
	}
	if op == OperationCreate {
		return false
	}
	got, err := op.Next(*prev)
	return err == nil && got == next
}

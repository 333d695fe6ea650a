package cartevents

const (
	TopicName          = "cart"
	sessionCreatedName = TopicName + ".sessionCreated"
	sessionClosedName  = TopicName + ".sessionClosed"
)

type SessionCreated struct {
	SessionUID string
}

func (e SessionCreated) GetEventTypeName() string {
	return sessionCreatedName
}

func (e SessionCreated) GetAggregateName() string {
	return e.SessionUID
}

type SessionClosed struct {
	SessionUID string
	ItemCount  int
	Total      string
}

func (e SessionClosed) GetEventTypeName() string {
	return sessionClosedName
}

func (e SessionClosed) GetAggregateName() string {
	return e.SessionUID
}

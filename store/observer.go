package store

// Observer receives business events after they have been made durable.
// *metrics.Metrics satisfies it.
type Observer interface {
	PageViewed(page string, unique bool)
	InterestClicked()
	LeadCaptured()
	SurveySubmitted()
	ReadFault(kind string)
}

type nopObserver struct{}

func (nopObserver) PageViewed(string, bool) {}
func (nopObserver) InterestClicked()        {}
func (nopObserver) LeadCaptured()           {}
func (nopObserver) SurveySubmitted()        {}
func (nopObserver) ReadFault(string)        {}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}

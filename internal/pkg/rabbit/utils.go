package rabbit

import "github.com/streadway/amqp"

//Declare declares durable queue, rejected messages are routed to dlqName
func Declare(ch *amqp.Channel, qName, dlqName string) (amqp.Queue, error) {
	if _, err := DeclareDeadletter(ch, dlqName); err != nil {
		return amqp.Queue{}, err
	}
	return ch.QueueDeclare(
		qName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		queueArgs(dlqName),
	)
}

//DeclareDeadletter declares durable queue without arguments
func DeclareDeadletter(ch *amqp.Channel, qName string) (amqp.Queue, error) {
	return ch.QueueDeclare(qName, true, false, false, false, nil)
}

func queueArgs(dlqName string) amqp.Table {
	return amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dlqName,
	}
}
